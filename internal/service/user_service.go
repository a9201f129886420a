package service

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"go.uber.org/zap"

	"math-solver/internal/domain"
	"math-solver/internal/repository"
)

// UserService cubre el perfil y la biblioteca del propio usuario.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	now    func() time.Time
}

func NewUserService(logger *zap.Logger, users repository.UserRepository) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		logger: logger,
		users:  users,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

// UpdateProfile cambia el nombre; un nombre vacio deja el perfil intacto.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name string) (domain.Profile, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	name = sanitizeText(name)
	if name == "" || name == user.Name {
		return user.Profile(), nil
	}
	user.Name = name
	if err := s.users.Save(ctx, user); err != nil {
		return domain.Profile{}, err
	}
	return user.Profile(), nil
}

func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrUserNotFound
	}
	s.logger.Info("account deleted", zap.String("user_id", userID))
	return nil
}

func (s *UserService) Library(ctx context.Context, userID string) ([]domain.LibraryItem, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Library == nil {
		return []domain.LibraryItem{}, nil
	}
	return user.Library, nil
}

type LibraryItemInput struct {
	Problem  string
	Solution string
	Title    string
}

func (in LibraryItemInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Problem, validation.Required),
	)
}

func (s *UserService) AddToLibrary(ctx context.Context, userID string, input LibraryItemInput) (domain.LibraryItem, error) {
	if err := validate(input); err != nil {
		return domain.LibraryItem{}, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.LibraryItem{}, err
	}

	title := sanitizeText(input.Title)
	if title == "" {
		title = domain.DefaultLibraryTitle
	}
	now := s.now()
	item := domain.LibraryItem{
		ID:        domain.NewItemID(now),
		Problem:   input.Problem,
		Solution:  input.Solution,
		Title:     title,
		Timestamp: now,
	}
	user.Library = append(user.Library, item)
	if err := s.users.Save(ctx, user); err != nil {
		return domain.LibraryItem{}, err
	}
	return item, nil
}

func (s *UserService) RemoveFromLibrary(ctx context.Context, userID, itemID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	idx := -1
	for i, item := range user.Library {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrItemNotFound
	}
	user.Library = append(user.Library[:idx], user.Library[idx+1:]...)
	return s.users.Save(ctx, user)
}

func (s *UserService) ClearLibrary(ctx context.Context, userID string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Library = []domain.LibraryItem{}
	return s.users.Save(ctx, user)
}

// AppendHistory guarda un problema resuelto en el historial del usuario.
func (s *UserService) AppendHistory(ctx context.Context, userID, problem, solution string) (domain.HistoryItem, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.HistoryItem{}, err
	}
	now := s.now()
	item := domain.HistoryItem{
		ID:        domain.NewItemID(now),
		Problem:   problem,
		Solution:  solution,
		Timestamp: now,
	}
	user.History = append(user.History, item)
	if err := s.users.Save(ctx, user); err != nil {
		return domain.HistoryItem{}, err
	}
	return item, nil
}

func (s *UserService) getUser(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
