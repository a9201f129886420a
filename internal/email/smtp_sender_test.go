package email

import (
	"context"
	"strings"
	"testing"
)

type capturedMail struct {
	addr string
	to   string
	msg  string
}

func newTestSender(t *testing.T) (*SMTPSender, *capturedMail) {
	t.Helper()
	s, err := NewSMTPSender("smtp.example.com", 0, "", "", "noreply@example.com", "AI Math Solver", false, "https://app.example.com/")
	if err != nil {
		t.Fatalf("new sender: %v", err)
	}
	captured := &capturedMail{}
	s.send = func(addr string, msg []byte, to string) error {
		captured.addr = addr
		captured.to = to
		captured.msg = string(msg)
		return nil
	}
	return s, captured
}

func TestNewSMTPSender_RequiresHostAndFrom(t *testing.T) {
	if _, err := NewSMTPSender("", 587, "", "", "a@b.c", "", false, ""); err == nil {
		t.Fatalf("expected error without host")
	}
	if _, err := NewSMTPSender("smtp.example.com", 587, "", "", "", "", false, ""); err == nil {
		t.Fatalf("expected error without from")
	}
}

func TestSMTPSender_SendVerification(t *testing.T) {
	s, captured := newTestSender(t)

	if err := s.SendVerification(context.Background(), "ada@example.com", "abc123", "Ada <script>"); err != nil {
		t.Fatalf("send verification: %v", err)
	}
	if captured.addr != "smtp.example.com:587" {
		t.Fatalf("expected default port, got %s", captured.addr)
	}
	if captured.to != "ada@example.com" {
		t.Fatalf("unexpected recipient %s", captured.to)
	}
	if !strings.Contains(captured.msg, "https://app.example.com/verify-email?token=abc123") {
		t.Fatalf("expected verification link in body")
	}
	if strings.Contains(captured.msg, "<script>") {
		t.Fatalf("expected name to be escaped")
	}
	if !strings.Contains(captured.msg, "From: AI Math Solver <noreply@example.com>") {
		t.Fatalf("expected from header, got %s", captured.msg)
	}
	if !strings.Contains(captured.msg, "Content-Type: text/html") {
		t.Fatalf("expected html content type")
	}
}

func TestSMTPSender_SendPasswordResetAndWelcome(t *testing.T) {
	s, captured := newTestSender(t)

	if err := s.SendPasswordReset(context.Background(), "ada@example.com", "reset-1", "Ada"); err != nil {
		t.Fatalf("send reset: %v", err)
	}
	if !strings.Contains(captured.msg, "https://app.example.com/reset-password?token=reset-1") {
		t.Fatalf("expected reset link")
	}
	if !strings.Contains(captured.msg, "expires in 1 hour") {
		t.Fatalf("expected reset expiry notice")
	}

	if err := s.SendWelcome(context.Background(), "ada@example.com", "Ada"); err != nil {
		t.Fatalf("send welcome: %v", err)
	}
	if !strings.Contains(captured.msg, "Subject: Welcome to AI Math Solver") {
		t.Fatalf("expected welcome subject")
	}
}

func TestSMTPSender_RejectsEmptyRecipient(t *testing.T) {
	s, _ := newTestSender(t)
	if err := s.SendWelcome(context.Background(), " ", "Ada"); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}

func TestDisabledSender(t *testing.T) {
	s := NewDisabledSender("")
	if err := s.SendVerification(context.Background(), "a@b.c", "t", "n"); err == nil {
		t.Fatalf("expected disabled sender error")
	}
	s = NewDisabledSender("smtp not configured")
	if err := s.SendWelcome(context.Background(), "a@b.c", "n"); err == nil || err.Error() != "smtp not configured" {
		t.Fatalf("expected configured reason, got %v", err)
	}
}
