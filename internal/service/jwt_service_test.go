package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"math-solver/internal/domain"
)

func newTestJWTService(now time.Time) *JWTService {
	svc := NewJWTService("secret", time.Hour)
	svc.now = func() time.Time { return now }
	return svc
}

func TestJWTService_IssueValidate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(now)
	user := domain.User{ID: "u1", Email: "user@example.com", IsAdmin: true}

	token, err := svc.IssueFor(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Identity.ID != "u1" || claims.Email != "user@example.com" || !claims.IsAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry one hour ahead, got %v", claims.ExpiresAt.Time)
	}
}

func TestJWTService_Deterministic(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(now)
	identity := Identity{ID: "u1", Email: "user@example.com"}

	a, err := svc.Issue(identity, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := svc.Issue(identity, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical tokens for fixed key and clock")
	}
}

func TestJWTService_RejectsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestJWTService(now)
	token, err := svc.Issue(Identity{ID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = svc.Validate(token)
	if !errors.Is(err, ErrJWTExpired) || !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired invalid token, got %v", err)
	}
}

func TestJWTService_RejectsTamperedAndMalformed(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	other := NewJWTService("other-secret", time.Hour)

	foreign, err := other.Issue(Identity{ID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for _, token := range []string{foreign, "not-a-jwt", "", foreign + "x"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}

func TestJWTService_RejectsEmptySecret(t *testing.T) {
	svc := NewJWTService("", time.Hour)
	if _, err := svc.Issue(Identity{ID: "u1"}, time.Hour); !errors.Is(err, ErrJWTNotConfigured) {
		t.Fatalf("expected ErrJWTNotConfigured, got %v", err)
	}
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		Identity: Identity{ID: "u1", Email: "user@example.com"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "other-issuer",
			Subject:   "u1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Validate(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}

func TestJWTService_RejectsSubjectMismatch(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	now := time.Now().UTC()
	claims := Claims{
		Identity: Identity{ID: "u1"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "math-solver",
			Subject:   "u2",
			ExpiresAt: jwt.NewNumericDate(now.Add(10 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.Validate(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for subject mismatch, got %v", err)
	}
}
