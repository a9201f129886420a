package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"math-solver/internal/domain"
	"math-solver/internal/email"
	"math-solver/internal/repository"
)

const (
	verificationTTL   = 24 * time.Hour
	passwordResetTTL  = time.Hour
	minPasswordLength = 6
	backgroundTimeout = 30 * time.Second
)

// ForgotPasswordMessage es la respuesta generica, exista o no la cuenta.
const ForgotPasswordMessage = "If an account exists with that email, a password reset link has been sent."

// AuthService coordina el ciclo de vida de las cuentas.
type AuthService struct {
	logger      *zap.Logger
	users       repository.UserRepository
	emailSender email.Sender
	hasher      PasswordHasher
	tokens      *JWTService

	now        func() time.Time
	newToken   func() (string, error)
	background sync.WaitGroup
}

func NewAuthService(logger *zap.Logger, users repository.UserRepository, emailSender email.Sender, hasher PasswordHasher, tokens *JWTService) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(0)
	}
	return &AuthService{
		logger:      logger,
		users:       users,
		emailSender: emailSender,
		hasher:      hasher,
		tokens:      tokens,
		now:         func() time.Time { return time.Now().UTC() },
		newToken:    randomToken,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

func (in SignupInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, passwordMaxBytes),
	)
}

type SignupResult struct {
	User                  domain.PublicUser
	VerificationEmailSent bool
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (SignupResult, error) {
	input.Name = sanitizeText(input.Name)
	input.Email = normalizeEmail(input.Email)
	if err := validate(input); err != nil {
		return SignupResult{}, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return SignupResult{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return SignupResult{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return SignupResult{}, err
	}
	token, err := s.newToken()
	if err != nil {
		return SignupResult{}, err
	}

	now := s.now()
	expires := now.Add(verificationTTL)
	user := domain.User{
		ID:                       uuid.NewString(),
		Name:                     input.Name,
		Email:                    input.Email,
		PasswordHash:             hash,
		EmailVerificationToken:   token,
		EmailVerificationExpires: &expires,
		RegistrationDate:         now,
		LastActive:               &now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return SignupResult{}, ErrEmailTaken
		}
		return SignupResult{}, err
	}

	sent := true
	if err := s.emailSender.SendVerification(ctx, user.Email, token, user.Name); err != nil {
		sent = false
		s.logger.Warn("send verification email failed", zap.Error(err), zap.String("user_id", user.ID))
	}
	s.sendWelcomeAsync(user)

	return SignupResult{User: user.Public(), VerificationEmailSent: sent}, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (domain.PublicUser, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.PublicUser{}, ErrInvalidToken
	}
	user, err := s.users.GetByVerificationToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.PublicUser{}, ErrInvalidToken
		}
		return domain.PublicUser{}, err
	}

	user.IsEmailVerified = true
	user.ClearVerification()
	if err := s.users.Save(ctx, user); err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if err := validation.Validate(emailAddr, validation.Required, is.Email); err != nil {
		return &ValidationError{Err: err}
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsEmailVerified {
		return ErrAlreadyVerified
	}

	token, err := s.newToken()
	if err != nil {
		return err
	}
	expires := s.now().Add(verificationTTL)
	user.EmailVerificationToken = token
	user.EmailVerificationExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	if err := s.emailSender.SendVerification(ctx, user.Email, token, user.Name); err != nil {
		s.logger.Error("resend verification email failed", zap.Error(err), zap.String("user_id", user.ID))
		return ErrEmailSendFailure
	}
	return nil
}

type LoginResult struct {
	Token string
	User  domain.PublicUser
}

func (s *AuthService) Login(ctx context.Context, emailAddr, password string, client domain.ClientInfo) (LoginResult, error) {
	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return LoginResult{}, &ValidationError{Err: errors.New("email and password are required")}
	}

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}
	if user.PasswordHash == "" || !s.hasher.Compare(user.PasswordHash, password) {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !user.IsEmailVerified {
		return LoginResult{}, &EmailUnverifiedError{Email: user.Email}
	}

	now := s.now()
	user.LastLogin = &now
	user.LastActive = &now
	user.AppendActivity(domain.NewActivityEntry(domain.ActionLogin, map[string]any{"method": "manual"}, client, now))
	if err := s.users.Save(ctx, user); err != nil {
		return LoginResult{}, err
	}

	token, err := s.tokens.IssueFor(user)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: user.Public()}, nil
}

// OAuthInput son los datos entregados por el proveedor tras el handshake.
type OAuthInput struct {
	Provider    string
	ProviderID  string
	DisplayName string
	Email       string
	PhotoURL    string
}

func (in OAuthInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Provider, validation.Required, validation.In(domain.ProviderGoogle, domain.ProviderFacebook)),
		validation.Field(&in.ProviderID, validation.Required),
		validation.Field(&in.Email, is.Email),
	)
}

func (s *AuthService) OAuthLogin(ctx context.Context, input OAuthInput) (domain.User, error) {
	input.Provider = strings.ToLower(strings.TrimSpace(input.Provider))
	input.ProviderID = strings.TrimSpace(input.ProviderID)
	input.Email = normalizeEmail(input.Email)
	input.DisplayName = sanitizeText(input.DisplayName)
	if err := validate(input); err != nil {
		return domain.User{}, err
	}

	user, err := s.users.GetByIDOrEmail(ctx, input.ProviderID, input.Email)
	if err == nil {
		if user.LinkProvider(input.Provider) {
			if err := s.users.Save(ctx, user); err != nil {
				return domain.User{}, err
			}
		}
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return domain.User{}, err
	}

	now := s.now()
	user = domain.User{
		ID:               input.ProviderID,
		Name:             input.DisplayName,
		Email:            input.Email,
		ImageURL:         strings.TrimSpace(input.PhotoURL),
		IsEmailVerified:  true,
		RegistrationDate: now,
		LastActive:       &now,
		ActivityLog:      []domain.ActivityEntry{},
		Library:          []domain.LibraryItem{},
		History:          []domain.HistoryItem{},
	}
	user.LinkProvider(input.Provider)
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, err
	}
	s.sendWelcomeAsync(user)
	return user, nil
}

// IssueToken emite el bearer token de un usuario ya autenticado.
func (s *AuthService) IssueToken(user domain.User) (string, error) {
	return s.tokens.IssueFor(user)
}

func (s *AuthService) ForgotPassword(ctx context.Context, emailAddr string) (string, error) {
	emailAddr = normalizeEmail(emailAddr)
	if err := validation.Validate(emailAddr, validation.Required, is.Email); err != nil {
		return "", &ValidationError{Err: err}
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ForgotPasswordMessage, nil
		}
		return "", err
	}

	token, err := s.newToken()
	if err != nil {
		return "", err
	}
	expires := s.now().Add(passwordResetTTL)
	user.PasswordResetToken = token
	user.PasswordResetExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return "", err
	}

	if err := s.emailSender.SendPasswordReset(ctx, user.Email, token, user.Name); err != nil {
		s.logger.Error("send password reset email failed", zap.Error(err), zap.String("user_id", user.ID))
		return "", ErrEmailSendFailure
	}
	return ForgotPasswordMessage, nil
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

func (in ResetPasswordInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.NewPassword, validation.Required, validation.Length(minPasswordLength, 0), passwordMaxBytes),
	)
}

func (s *AuthService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if err := validate(input); err != nil {
		return err
	}
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return ErrInvalidToken
	}
	user, err := s.users.GetByResetToken(ctx, token, s.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	if !user.IsEmailVerified && !user.HasProviderLink() {
		return &EmailUnverifiedError{Email: user.Email}
	}

	hash, err := s.hasher.Hash(input.NewPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.ClearPasswordReset()
	return s.users.Save(ctx, user)
}

// Logout solo deja constancia en el registro de actividad; el token sigue siendo valido hasta expirar.
func (s *AuthService) Logout(ctx context.Context, identity Identity, client domain.ClientInfo) {
	if identity.ID == "" {
		return
	}
	entry := domain.NewActivityEntry(domain.ActionLogout, nil, client, s.now())
	if err := s.users.AppendActivity(ctx, identity.ID, entry, domain.MaxActivityEntries); err != nil {
		s.logger.Warn("record logout activity failed", zap.Error(err), zap.String("user_id", identity.ID))
	}
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.PublicUser{}, ErrUserNotFound
		}
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// Wait bloquea hasta que terminen los envios en segundo plano.
func (s *AuthService) Wait() {
	s.background.Wait()
}

func (s *AuthService) sendWelcomeAsync(user domain.User) {
	if user.Email == "" {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), backgroundTimeout)
		defer cancel()
		if err := s.emailSender.SendWelcome(ctx, user.Email, user.Name); err != nil {
			s.logger.Warn("send welcome email failed", zap.Error(err), zap.String("user_id", user.ID))
		}
	}()
}
