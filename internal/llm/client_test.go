package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGeminiClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/test-model:generateContent" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-goog-api-key"); got != "key" {
			t.Fatalf("expected api key header, got %q", got)
		}
		var body generateRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(body.Contents) != 1 || body.Contents[0].Parts[0].Text != `\int x\,dx` {
			t.Fatalf("unexpected request body: %+v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"x^2/2 "},{"text":"+ C"}]}}]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL+"/", "key", "test-model", nil)
	got, err := client.Generate(context.Background(), `\int x\,dx`)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != "x^2/2 + C" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestGeminiClientGenerate_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "key", "m", nil)
	if _, err := client.Generate(context.Background(), "1+1"); err == nil {
		t.Fatalf("expected error on 429")
	}
}

func TestGeminiClientGenerate_EmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	client := NewGeminiClient(srv.URL, "key", "m", nil)
	if _, err := client.Generate(context.Background(), "1+1"); err == nil {
		t.Fatalf("expected error on empty response")
	}
}

func TestGeminiClientGenerate_RequiresAPIKey(t *testing.T) {
	client := NewGeminiClient("", "", "", nil)
	if _, err := client.Generate(context.Background(), "1+1"); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
