package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"math-solver/internal/domain"
	"math-solver/internal/repository"
)

type sentEmail struct {
	kind  string
	to    string
	token string
	name  string
}

type mockEmailSender struct {
	mu           sync.Mutex
	sent         []sentEmail
	verifyErr    error
	resetErr     error
	welcomeErr   error
	welcomeCalls int
}

func (m *mockEmailSender) SendVerification(_ context.Context, toEmail, token, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{kind: "verification", to: toEmail, token: token, name: name})
	return m.verifyErr
}

func (m *mockEmailSender) SendPasswordReset(_ context.Context, toEmail, token, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentEmail{kind: "reset", to: toEmail, token: token, name: name})
	return m.resetErr
}

func (m *mockEmailSender) SendWelcome(_ context.Context, toEmail, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomeCalls++
	m.sent = append(m.sent, sentEmail{kind: "welcome", to: toEmail, name: name})
	return m.welcomeErr
}

func (m *mockEmailSender) last(kind string) (sentEmail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i], true
		}
	}
	return sentEmail{}, false
}

func (m *mockEmailSender) count(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.sent {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// failingActivityRepo falla en AppendActivity para probar que la auditoria no rompe la operacion.
type failingActivityRepo struct {
	repository.UserRepository
}

func (r failingActivityRepo) AppendActivity(context.Context, string, domain.ActivityEntry, int) error {
	return errors.New("store unavailable")
}

type authFixture struct {
	svc    *AuthService
	repo   *repository.MemoryUserRepository
	sender *mockEmailSender
	now    time.Time
}

func newAuthFixture() *authFixture {
	repo := repository.NewMemoryUserRepository()
	sender := &mockEmailSender{}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tokens := NewJWTService("secret", 24*time.Hour)
	tokens.now = func() time.Time { return now }
	svc := NewAuthService(nil, repo, sender, NewBcryptHasher(bcrypt.MinCost), tokens)
	f := &authFixture{svc: svc, repo: repo, sender: sender, now: now}
	svc.now = func() time.Time { return f.now }
	return f
}

func (f *authFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
	f.svc.tokens.now = func() time.Time { return f.now }
}
