package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"math-solver/internal/domain"
	"math-solver/internal/service"
)

type recordedActivity struct {
	userID  string
	action  string
	details map[string]any
	client  domain.ClientInfo
}

type mockRecorder struct {
	mu      sync.Mutex
	entries []recordedActivity
}

func (m *mockRecorder) Record(_ context.Context, userID, action string, details map[string]any, client domain.ClientInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, recordedActivity{userID: userID, action: action, details: details, client: client})
}

func TestLogActivity_RedactsAndRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtSvc := service.NewJWTService("secret", time.Hour)
	token, _ := jwtSvc.Issue(service.Identity{ID: "u1"}, time.Minute)
	recorder := &mockRecorder{}

	var handlerBody string
	r := gin.New()
	r.POST("/items/:id", JWTAuthMiddleware(jwtSvc), LogActivity(recorder, "add_to_library"), func(c *gin.Context) {
		raw, _ := io.ReadAll(c.Request.Body)
		handlerBody = string(raw)
		c.Status(http.StatusOK)
	})

	payload := `{"title":"t","password":"p","apiKey":"k","token":""}`
	req := httptest.NewRequest(http.MethodPost, "/items/42?page=2", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "tester")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	expectStatus(t, rec, http.StatusOK)
	if handlerBody != payload {
		t.Fatalf("expected body restored for handler, got %q", handlerBody)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected one activity, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.userID != "u1" || entry.action != "add_to_library" || entry.client.UserAgent != "tester" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	body, _ := entry.details["body"].(map[string]any)
	if body["password"] != redacted || body["apiKey"] != redacted || body["title"] != "t" {
		t.Fatalf("expected sensitive fields redacted, got %v", body)
	}
	if body["token"] != "" {
		t.Fatalf("expected empty token left as is, got %v", body["token"])
	}
	if params, _ := entry.details["params"].(map[string]string); params["id"] != "42" {
		t.Fatalf("expected params captured, got %v", entry.details["params"])
	}
	if query, _ := entry.details["query"].(map[string]string); query["page"] != "2" {
		t.Fatalf("expected query captured, got %v", entry.details["query"])
	}
}

func TestLogActivity_SkipsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &mockRecorder{}
	r := gin.New()
	r.GET("/open", LogActivity(recorder, "view_profile"), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/open", nil))
	expectStatus(t, rec, http.StatusOK)
	if len(recorder.entries) != 0 {
		t.Fatalf("expected no activity without claims")
	}
}
