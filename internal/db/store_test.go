package db

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"math-solver/internal/config"
)

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), &config.Config{StoreDriver: "memory"}, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if store.Users == nil {
		t.Fatalf("expected user repository")
	}
	if err := store.Ping(); err != nil {
		t.Fatalf("expected memory ping to succeed: %v", err)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	if _, err := OpenStore(context.Background(), &config.Config{StoreDriver: "sqlite"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestOpenStore_PostgresRequiresURL(t *testing.T) {
	if _, err := OpenStore(context.Background(), &config.Config{StoreDriver: "postgres"}, zap.NewNop()); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}
