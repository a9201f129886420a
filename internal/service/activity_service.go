package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.uber.org/zap"

	"math-solver/internal/domain"
	"math-solver/internal/repository"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = domain.MaxActivityEntries
)

// ActivityService gestiona el registro de auditoria por usuario.
type ActivityService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time
}

func NewActivityService(logger *zap.Logger, users repository.UserRepository) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Record agrega una entrada de forma atomica. Los errores se registran y no se propagan.
func (s *ActivityService) Record(ctx context.Context, userID, action string, details map[string]any, client domain.ClientInfo) {
	if userID == "" {
		return
	}
	entry := domain.NewActivityEntry(action, details, client, s.now())
	if err := s.users.AppendActivity(ctx, userID, entry, domain.MaxActivityEntries); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return
		}
		s.logger.Warn("record activity failed", zap.Error(err), zap.String("user_id", userID), zap.String("action", action))
	}
}

type ActivityQuery struct {
	Limit  int
	Offset int
	Action string
}

func (q ActivityQuery) normalized() ActivityQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultActivityLimit
	}
	if q.Limit > MaxActivityLimit {
		q.Limit = MaxActivityLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

type ActivityPage struct {
	Total      int                    `json:"total"`
	Limit      int                    `json:"limit"`
	Offset     int                    `json:"offset"`
	Activities []domain.ActivityEntry `json:"activities"`
}

func (s *ActivityService) List(ctx context.Context, userID string, query ActivityQuery) (ActivityPage, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return ActivityPage{}, err
	}
	return paginateActivity(user.ActivityLog, query), nil
}

type ActivityStats struct {
	TotalActivities  int            `json:"total_activities"`
	LastLogin        *time.Time     `json:"last_login"`
	LastActive       *time.Time     `json:"last_active"`
	RegistrationDate time.Time      `json:"registration_date"`
	HistoryItems     int            `json:"history_items"`
	LibraryItems     int            `json:"library_items"`
	ActivityByAction map[string]int `json:"activity_by_action"`
}

func (s *ActivityService) Stats(ctx context.Context, userID string) (ActivityStats, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return ActivityStats{}, err
	}
	stats := ActivityStats{
		TotalActivities:  len(user.ActivityLog),
		LastLogin:        user.LastLogin,
		LastActive:       user.LastActive,
		RegistrationDate: user.RegistrationDate,
		HistoryItems:     len(user.History),
		LibraryItems:     len(user.Library),
		ActivityByAction: make(map[string]int),
	}
	for _, entry := range user.ActivityLog {
		stats.ActivityByAction[entry.Action]++
	}
	return stats, nil
}

func (s *ActivityService) Clear(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.ActivityLog = []domain.ActivityEntry{}
	return s.users.Save(ctx, user)
}

func (s *ActivityService) getUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// paginateActivity filtra por accion, ordena de mas reciente a mas antigua y recorta la pagina.
func paginateActivity(log []domain.ActivityEntry, query ActivityQuery) ActivityPage {
	query = query.normalized()
	filtered := make([]domain.ActivityEntry, 0, len(log))
	for _, entry := range log {
		if query.Action != "" && entry.Action != query.Action {
			continue
		}
		filtered = append(filtered, entry)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Timestamp.After(filtered[j].Timestamp)
	})

	page := ActivityPage{Total: len(filtered), Limit: query.Limit, Offset: query.Offset, Activities: []domain.ActivityEntry{}}
	if query.Offset >= len(filtered) {
		return page
	}
	end := query.Offset + query.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	page.Activities = filtered[query.Offset:end]
	return page
}
