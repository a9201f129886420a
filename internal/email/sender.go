package email

import (
	"context"
	"errors"
)

// Sender define la interfaz para los correos del ciclo de vida de la cuenta.
type Sender interface {
	SendVerification(ctx context.Context, toEmail, token, name string) error
	SendPasswordReset(ctx context.Context, toEmail, token, name string) error
	SendWelcome(ctx context.Context, toEmail, name string) error
}

type disabledSender struct {
	reason string
}

func NewDisabledSender(reason string) Sender {
	return &disabledSender{reason: reason}
}

func (s *disabledSender) SendVerification(_ context.Context, _, _, _ string) error {
	return s.err()
}

func (s *disabledSender) SendPasswordReset(_ context.Context, _, _, _ string) error {
	return s.err()
}

func (s *disabledSender) SendWelcome(_ context.Context, _, _ string) error {
	return s.err()
}

func (s *disabledSender) err() error {
	if s.reason == "" {
		return errors.New("email sender disabled")
	}
	return errors.New(s.reason)
}
