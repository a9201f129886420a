package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/service"
)

// errorWriter traduce errores de servicio a respuestas JSON.
type errorWriter struct {
	logger     *zap.Logger
	production bool
}

func newErrorWriter(logger *zap.Logger, production bool) errorWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return errorWriter{logger: logger, production: production}
}

// write responde con el status que corresponde al error. fallback es el mensaje para errores inesperados.
func (w errorWriter) write(c *gin.Context, err error, fallback string) {
	var validationErr *service.ValidationError
	var unverifiedErr *service.EmailUnverifiedError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &unverifiedErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":            "email not verified",
			"email":            unverifiedErr.Email,
			"emailNotVerified": true,
		})
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAlreadyVerified),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailSendFailure):
		w.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send email"})
	case errors.Is(err, service.ErrSolverUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		w.logger.Error(fallback, zap.Error(err), zap.String("path", c.FullPath()))
		body := gin.H{"error": fallback}
		if !w.production {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}

// badRequest responde a errores de binding del request.
func (w errorWriter) badRequest(c *gin.Context, err error, msg string) {
	w.logger.Debug("invalid request", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
