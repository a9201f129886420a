package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"math-solver/internal/domain"
)

const (
	redacted        = "[REDACTED]"
	maxAuditBodyLen = 64 << 10
)

var sensitiveFields = []string{"password", "token", "secret", "apikey"}

// ActivityRecorder registra entradas de auditoria sin fallar al llamador.
type ActivityRecorder interface {
	Record(ctx context.Context, userID, action string, details map[string]any, client domain.ClientInfo)
}

// LogActivity registra la accion del usuario autenticado antes de ejecutar el handler.
func LogActivity(recorder ActivityRecorder, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetAuthClaims(c)
		if ok && recorder != nil {
			details := map[string]any{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
				"body":   auditBody(c),
				"params": paramsMap(c.Params),
				"query":  queryMap(c),
			}
			recorder.Record(c.Request.Context(), claims.Identity.ID, action, details, clientInfo(c))
		}
		c.Next()
	}
}

// auditBody lee el cuerpo JSON, lo restaura para el handler y oculta campos sensibles.
func auditBody(c *gin.Context) map[string]any {
	out := map[string]any{}
	if c.Request.Body == nil || !strings.Contains(c.ContentType(), "json") {
		return out
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAuditBodyLen))
	if err != nil {
		return out
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(raw), c.Request.Body))
	if len(raw) == 0 {
		return out
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return map[string]any{}
	}
	return redact(out)
}

func redact(body map[string]any) map[string]any {
	for key, val := range body {
		if isSensitive(key) {
			if val != nil && val != "" {
				body[key] = redacted
			}
		}
	}
	return body
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if lower == field {
			return true
		}
	}
	return false
}

func paramsMap(params gin.Params) map[string]string {
	out := make(map[string]string, len(params))
	for _, p := range params {
		out[p.Key] = p.Value
	}
	return out
}

func queryMap(c *gin.Context) map[string]string {
	values := c.Request.URL.Query()
	out := make(map[string]string, len(values))
	for key := range values {
		out[key] = values.Get(key)
	}
	return out
}
