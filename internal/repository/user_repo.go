package repository

import (
	"context"
	"errors"
	"time"

	"math-solver/internal/domain"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// UserRepository define el contrato de persistencia para usuarios.
//
// Los documentos se leen completos y se reescriben con Save; solo AppendActivity
// es una actualizacion atomica sobre el documento.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Save(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) (int64, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByIDOrEmail(ctx context.Context, id, email string) (domain.User, error)
	GetByVerificationToken(ctx context.Context, token string, now time.Time) (domain.User, error)
	GetByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error)
	AppendActivity(ctx context.Context, id string, entry domain.ActivityEntry, max int) error
	List(ctx context.Context) ([]domain.User, error)
}

// withEmptySlices evita guardar null en los arreglos del documento.
func withEmptySlices(u domain.User) domain.User {
	if u.ActivityLog == nil {
		u.ActivityLog = []domain.ActivityEntry{}
	}
	if u.Library == nil {
		u.Library = []domain.LibraryItem{}
	}
	if u.History == nil {
		u.History = []domain.HistoryItem{}
	}
	return u
}
