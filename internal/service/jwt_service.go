package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"math-solver/internal/domain"
)

// JWTService emite y valida los bearer tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// Identity son los datos de identidad que viajan en el token.
type Identity struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

type Claims struct {
	Identity
	jwt.RegisteredClaims
}

var (
	ErrJWTNotConfigured = errors.New("jwt secret not configured")
	ErrJWTExpired       = fmt.Errorf("jwt expired: %w", ErrInvalidToken)
)

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "math-solver",
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// IdentityOf extrae la identidad de un usuario.
func IdentityOf(user domain.User) Identity {
	return Identity{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin}
}

// IssueFor emite un token con el TTL por defecto.
func (s *JWTService) IssueFor(user domain.User) (string, error) {
	return s.Issue(IdentityOf(user), s.ttl)
}

func (s *JWTService) Issue(identity Identity, ttl time.Duration) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrJWTNotConfigured
	}
	if strings.TrimSpace(identity.ID) == "" {
		return "", ErrInvalidToken
	}
	if ttl <= 0 {
		ttl = s.ttl
	}
	now := s.now()
	claims := Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *JWTService) Validate(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrJWTNotConfigured
	}
	if strings.TrimSpace(tokenString) == "" {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrJWTExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !s.isValidClaims(claims) {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (s *JWTService) isValidClaims(claims Claims) bool {
	if strings.TrimSpace(claims.Identity.ID) == "" {
		return false
	}
	if claims.Subject != claims.Identity.ID {
		return false
	}
	return strings.TrimSpace(claims.Issuer) == s.issuer
}
