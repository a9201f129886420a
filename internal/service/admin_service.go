package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"math-solver/internal/domain"
	"math-solver/internal/repository"
)

// AdminService expone vistas globales para administradores.
type AdminService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time
}

func NewAdminService(logger *zap.Logger, users repository.UserRepository) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AdminUserView es la vista de un usuario para el panel, sin secretos.
type AdminUserView struct {
	domain.PublicUser
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	LastActive      *time.Time `json:"lastActive,omitempty"`
	ActivityCount   int        `json:"activityCount"`
	LibraryCount    int        `json:"libraryCount"`
	HistoryCount    int        `json:"historyCount"`
	HasPassword     bool       `json:"hasPassword"`
	PendingVerify   bool       `json:"pendingVerification"`
	PendingPassword bool       `json:"pendingPasswordReset"`
}

func adminView(u domain.User) AdminUserView {
	return AdminUserView{
		PublicUser:      u.Public(),
		LastLogin:       u.LastLogin,
		LastActive:      u.LastActive,
		ActivityCount:   len(u.ActivityLog),
		LibraryCount:    len(u.Library),
		HistoryCount:    len(u.History),
		HasPassword:     u.PasswordHash != "",
		PendingVerify:   u.EmailVerificationToken != "",
		PendingPassword: u.PasswordResetToken != "",
	}
}

func (s *AdminService) ListUsers(ctx context.Context) ([]AdminUserView, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]AdminUserView, 0, len(users))
	for _, u := range users {
		views = append(views, adminView(u))
	}
	return views, nil
}

type UserActivitySummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	LastActive *time.Time `json:"lastActive,omitempty"`
}

type UserActivityPage struct {
	User UserActivitySummary `json:"user"`
	ActivityPage
}

func (s *AdminService) UserActivity(ctx context.Context, userID string, query ActivityQuery) (UserActivityPage, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return UserActivityPage{}, ErrUserNotFound
		}
		return UserActivityPage{}, err
	}
	query.Action = ""
	return UserActivityPage{
		User: UserActivitySummary{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			LastLogin:  user.LastLogin,
			LastActive: user.LastActive,
		},
		ActivityPage: paginateActivity(user.ActivityLog, query),
	}, nil
}

type SystemStats struct {
	TotalUsers        int `json:"total_users"`
	ActiveUsers24h    int `json:"active_users_24h"`
	ActiveUsers7d     int `json:"active_users_7d"`
	TotalActivities   int `json:"total_activities"`
	TotalHistoryItems int `json:"total_history_items"`
	TotalLibraryItems int `json:"total_library_items"`
}

func (s *AdminService) Stats(ctx context.Context) (SystemStats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return SystemStats{}, err
	}
	now := s.now()
	dayAgo := now.Add(-24 * time.Hour)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := SystemStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.LastActive != nil {
			if u.LastActive.After(dayAgo) {
				stats.ActiveUsers24h++
			}
			if u.LastActive.After(weekAgo) {
				stats.ActiveUsers7d++
			}
		}
		stats.TotalActivities += len(u.ActivityLog)
		stats.TotalHistoryItems += len(u.History)
		stats.TotalLibraryItems += len(u.Library)
	}
	return stats, nil
}

// SetAdmin cambia el rol de administrador de una cuenta existente.
func (s *AdminService) SetAdmin(ctx context.Context, emailAddr string, isAdmin bool) (domain.PublicUser, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || !strings.Contains(emailAddr, "@") {
		return domain.PublicUser{}, &ValidationError{Err: errors.New("email is required")}
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.PublicUser{}, ErrUserNotFound
		}
		return domain.PublicUser{}, err
	}
	if user.IsAdmin == isAdmin {
		return user.Public(), nil
	}
	user.IsAdmin = isAdmin
	if err := s.users.Save(ctx, user); err != nil {
		return domain.PublicUser{}, err
	}
	s.logger.Info("admin role changed", zap.String("user_id", user.ID), zap.Bool("is_admin", isAdmin))
	return user.Public(), nil
}
