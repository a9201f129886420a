package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"math-solver/internal/domain"
	"math-solver/internal/llm"
	"math-solver/internal/oauth"
	"math-solver/internal/repository"
	"math-solver/internal/service"
)

type capturedEmail struct {
	kind  string
	to    string
	token string
}

type mockEmailSender struct {
	mu        sync.Mutex
	sent      []capturedEmail
	verifyErr error
}

func (m *mockEmailSender) SendVerification(_ context.Context, toEmail, token, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedEmail{kind: "verification", to: toEmail, token: token})
	return m.verifyErr
}

func (m *mockEmailSender) SendPasswordReset(_ context.Context, toEmail, token, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedEmail{kind: "reset", to: toEmail, token: token})
	return nil
}

func (m *mockEmailSender) SendWelcome(_ context.Context, toEmail, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, capturedEmail{kind: "welcome", to: toEmail})
	return nil
}

func (m *mockEmailSender) lastToken(kind string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].kind == kind {
			return m.sent[i].token
		}
	}
	return ""
}

type fakeProvider struct {
	profile oauth.Profile
	err     error
}

func (p *fakeProvider) Name() string { return "google" }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (p *fakeProvider) Exchange(_ context.Context, code string) (oauth.Profile, error) {
	if code == "" {
		return oauth.Profile{}, errors.New("missing code")
	}
	return p.profile, p.err
}

type testServer struct {
	router   *gin.Engine
	repo     *repository.MemoryUserRepository
	sender   *mockEmailSender
	jwt      *service.JWTService
	auth     *service.AuthService
	states   repository.OAuthStateStore
	provider *fakeProvider
	llm      *llm.MockClient
}

const testFrontendURL = "https://app.example.com"

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	repo := repository.NewMemoryUserRepository()
	sender := &mockEmailSender{}
	jwtSvc := service.NewJWTService("secret", time.Hour)
	authSvc := service.NewAuthService(logger, repo, sender, service.NewBcryptHasher(bcrypt.MinCost), jwtSvc)
	t.Cleanup(authSvc.Wait)
	userSvc := service.NewUserService(logger, repo)
	activitySvc := service.NewActivityService(logger, repo)
	adminSvc := service.NewAdminService(logger, repo)
	llmClient := &llm.MockClient{Response: "x = 2"}
	solverSvc := service.NewSolverService(logger, llmClient, userSvc)
	states := repository.NewMemoryOAuthStateStore()
	provider := &fakeProvider{profile: oauth.Profile{
		Provider:    "google",
		ProviderID:  "g-1",
		DisplayName: "Grace",
		Email:       "grace@example.com",
	}}

	router := NewRouter(RouterDeps{
		Logger:     logger,
		JWT:        jwtSvc,
		Recorder:   activitySvc,
		Metrics:    NewMetrics(),
		CORSOrigin: testFrontendURL,
		Auth:       NewAuthHandler(logger, authSvc, provider, states, testFrontendURL, false),
		Users:      NewUserHandler(logger, userSvc, false),
		Activity:   NewActivityHandler(logger, activitySvc, false),
		Admin:      NewAdminHandler(logger, adminSvc, false),
		Solver:     NewSolverHandler(logger, solverSvc, false),
	})

	return &testServer{
		router:   router,
		repo:     repo,
		sender:   sender,
		jwt:      jwtSvc,
		auth:     authSvc,
		states:   states,
		provider: provider,
		llm:      llmClient,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// seedVerified crea un usuario verificado con password y devuelve su token.
func (s *testServer) seedVerified(t *testing.T, id, email string, isAdmin bool) string {
	t.Helper()
	hash, err := service.NewBcryptHasher(bcrypt.MinCost).Hash("s3cret!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := domain.User{
		ID:               id,
		Name:             "User " + id,
		Email:            email,
		PasswordHash:     hash,
		IsEmailVerified:  true,
		IsAdmin:          isAdmin,
		RegistrationDate: time.Now().UTC(),
	}
	if err := s.repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	token, err := s.jwt.IssueFor(user)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}
