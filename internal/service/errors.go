package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailUnverified    = errors.New("email not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrItemNotFound       = errors.New("item not found")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailSendFailure   = errors.New("email send failed")
	ErrSolverUnavailable  = errors.New("solver unavailable")
)

// ValidationError envuelve los errores de validacion de entrada.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", ErrValidation, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// EmailUnverifiedError lleva el email para que el cliente ofrezca reenviar la verificacion.
type EmailUnverifiedError struct {
	Email string
}

func (e *EmailUnverifiedError) Error() string {
	return ErrEmailUnverified.Error()
}

func (e *EmailUnverifiedError) Is(target error) bool {
	return target == ErrEmailUnverified
}

type validatable interface {
	Validate() error
}

func validate(in validatable) error {
	if err := in.Validate(); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}
