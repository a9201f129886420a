package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"math-solver/internal/domain"
)

const (
	defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// StateTTL es la vida maxima del parametro state entre redireccion y callback.
	StateTTL = 10 * time.Minute
)

var ErrMissingCode = errors.New("missing authorization code")

// Profile son los datos de identidad que entrega el proveedor.
type Profile struct {
	Provider    string
	ProviderID  string
	DisplayName string
	Email       string
	PhotoURL    string
}

// Provider abstrae el handshake OAuth de un proveedor externo.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string

	// Endpoint y UserInfoURL se sobreescriben en tests.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

// GoogleProvider implementa Provider con golang.org/x/oauth2.
type GoogleProvider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" || endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = defaultUserInfoURL
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"openid",
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: endpoint,
		},
		userInfoURL: userInfoURL,
	}
}

func (p *GoogleProvider) Name() string {
	return domain.ProviderGoogle
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (Profile, error) {
	if code == "" {
		return Profile{}, ErrMissingCode
	}
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("exchange code: %w", err)
	}
	info, err := p.fetchUserInfo(ctx, token)
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Provider:    domain.ProviderGoogle,
		ProviderID:  info.ID,
		DisplayName: info.Name,
		Email:       info.Email,
		PhotoURL:    info.Picture,
	}, nil
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (p *GoogleProvider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	client := p.config.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("user info status: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("decode user info: %w", err)
	}
	if info.ID == "" {
		return googleUserInfo{}, errors.New("user info without id")
	}
	return info, nil
}

// NewState genera un valor state aleatorio para proteger el callback.
func NewState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
