package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"math-solver/internal/domain"
)

// MemoryUserRepository guarda usuarios en memoria. Util para desarrollo y tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return ErrUserExists
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) Save(_ context.Context, user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return cloneUser(user), nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	return r.findFirst(func(u domain.User) bool {
		return email != "" && u.Email == email
	})
}

func (r *MemoryUserRepository) GetByIDOrEmail(_ context.Context, id, email string) (domain.User, error) {
	return r.findFirst(func(u domain.User) bool {
		return (id != "" && u.ID == id) || (email != "" && u.Email == email)
	})
}

func (r *MemoryUserRepository) GetByVerificationToken(_ context.Context, token string, now time.Time) (domain.User, error) {
	return r.findFirst(func(u domain.User) bool {
		return token != "" && u.EmailVerificationToken == token &&
			u.EmailVerificationExpires != nil && u.EmailVerificationExpires.After(now)
	})
}

func (r *MemoryUserRepository) GetByResetToken(_ context.Context, token string, now time.Time) (domain.User, error) {
	return r.findFirst(func(u domain.User) bool {
		return token != "" && u.PasswordResetToken == token &&
			u.PasswordResetExpires != nil && u.PasswordResetExpires.After(now)
	})
}

func (r *MemoryUserRepository) AppendActivity(_ context.Context, id string, entry domain.ActivityEntry, max int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return ErrUserNotFound
	}
	log := append(append([]domain.ActivityEntry(nil), user.ActivityLog...), entry)
	user.ActivityLog = domain.TrimActivity(log, max)
	lastActive := entry.Timestamp
	user.LastActive = &lastActive
	r.users[id] = user
	return nil
}

func (r *MemoryUserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegistrationDate.Before(out[j].RegistrationDate)
	})
	return out, nil
}

// findFirst recorre en orden de registro para que el resultado sea determinista.
func (r *MemoryUserRepository) findFirst(match func(domain.User) bool) (domain.User, error) {
	users, _ := r.List(context.Background())
	for _, u := range users {
		if match(u) {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

func cloneUser(u domain.User) domain.User {
	u.ActivityLog = append([]domain.ActivityEntry(nil), u.ActivityLog...)
	u.Library = append([]domain.LibraryItem(nil), u.Library...)
	u.History = append([]domain.HistoryItem(nil), u.History...)
	if u.EmailVerificationExpires != nil {
		t := *u.EmailVerificationExpires
		u.EmailVerificationExpires = &t
	}
	if u.PasswordResetExpires != nil {
		t := *u.PasswordResetExpires
		u.PasswordResetExpires = &t
	}
	if u.LastLogin != nil {
		t := *u.LastLogin
		u.LastLogin = &t
	}
	if u.LastActive != nil {
		t := *u.LastActive
		u.LastActive = &t
	}
	return u
}
