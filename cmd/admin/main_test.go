package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"math-solver/internal/domain"
	"math-solver/internal/repository"
)

func TestRun_GrantsAndRevokesAdmin(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryUserRepository()
	if err := repo.Create(ctx, domain.User{ID: "u1", Email: "ada@example.com"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	logger := zap.NewExample()

	var out bytes.Buffer
	if err := run(ctx, logger, repo, &out, "ADA@example.com", true); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if !strings.Contains(out.String(), "ahora es administrador") {
		t.Fatalf("unexpected output: %q", out.String())
	}
	stored, _ := repo.GetByID(ctx, "u1")
	if !stored.IsAdmin {
		t.Fatalf("expected admin flag set")
	}

	out.Reset()
	if err := run(ctx, logger, repo, &out, "ada@example.com", false); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	stored, _ = repo.GetByID(ctx, "u1")
	if stored.IsAdmin || !strings.Contains(out.String(), "ya no es administrador") {
		t.Fatalf("expected admin flag cleared, output %q", out.String())
	}
}

func TestRun_UnknownEmail(t *testing.T) {
	repo := repository.NewMemoryUserRepository()
	err := run(context.Background(), zap.NewNop(), repo, &bytes.Buffer{}, "nobody@example.com", true)
	if err == nil || !strings.Contains(err.Error(), "no existe") {
		t.Fatalf("expected not found error, got %v", err)
	}
}
