package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"math-solver/internal/service"
)

func writeWith(w errorWriter, err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	w.write(c, err, "operation failed")
	return rec
}

func TestErrorWriter_StatusMapping(t *testing.T) {
	w := newErrorWriter(nil, false)
	cases := []struct {
		err  error
		want int
	}{
		{&service.ValidationError{Err: errors.New("name: cannot be blank")}, http.StatusBadRequest},
		{service.ErrEmailTaken, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusBadRequest},
		{service.ErrAlreadyVerified, http.StatusBadRequest},
		{fmt.Errorf("verify: %w", service.ErrInvalidToken), http.StatusBadRequest},
		{&service.EmailUnverifiedError{Email: "a@example.com"}, http.StatusForbidden},
		{service.ErrUserNotFound, http.StatusNotFound},
		{service.ErrItemNotFound, http.StatusNotFound},
		{service.ErrForbidden, http.StatusForbidden},
		{service.ErrEmailSendFailure, http.StatusInternalServerError},
		{service.ErrSolverUnavailable, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := writeWith(w, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func TestErrorWriter_DetailOnlyOutsideProduction(t *testing.T) {
	dev := decodeBody(t, writeWith(newErrorWriter(nil, false), errors.New("disk on fire")))
	if dev["detail"] != "disk on fire" {
		t.Fatalf("expected detail in development, got %v", dev)
	}
	prod := decodeBody(t, writeWith(newErrorWriter(nil, true), errors.New("disk on fire")))
	if _, ok := prod["detail"]; ok {
		t.Fatalf("expected no detail in production, got %v", prod)
	}
	if prod["error"] != "operation failed" {
		t.Fatalf("expected fallback message, got %v", prod)
	}
}
