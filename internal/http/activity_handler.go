package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/service"
)

// ActivityHandler expone el registro de actividad del usuario autenticado.
type ActivityHandler struct {
	logger      *zap.Logger
	activitySrv *service.ActivityService
	errs        errorWriter
}

func NewActivityHandler(logger *zap.Logger, activitySrv *service.ActivityService, production bool) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{logger: logger, activitySrv: activitySrv, errs: newErrorWriter(logger, production)}
}

// List maneja GET /users/activity.
func (h *ActivityHandler) List(c *gin.Context) {
	query, ok := parseActivityQuery(c, h.errs)
	if !ok {
		return
	}
	claims, _ := GetAuthClaims(c)
	page, err := h.activitySrv.List(c.Request.Context(), claims.Identity.ID, query)
	if err != nil {
		h.errs.write(c, err, "error fetching activity")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Stats maneja GET /users/activity/stats.
func (h *ActivityHandler) Stats(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	stats, err := h.activitySrv.Stats(c.Request.Context(), claims.Identity.ID)
	if err != nil {
		h.errs.write(c, err, "error fetching stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Clear maneja DELETE /users/activity.
func (h *ActivityHandler) Clear(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	if err := h.activitySrv.Clear(c.Request.Context(), claims.Identity.ID); err != nil {
		h.errs.write(c, err, "error clearing activity")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Activity log cleared successfully"})
}

// parseActivityQuery lee limit, offset y action del query string.
func parseActivityQuery(c *gin.Context, errs errorWriter) (service.ActivityQuery, bool) {
	query := service.ActivityQuery{Action: c.Query("action")}
	var err error
	if raw := c.Query("limit"); raw != "" {
		if query.Limit, err = strconv.Atoi(raw); err != nil || query.Limit < 0 {
			errs.badRequest(c, err, "limit must be a non-negative integer")
			return service.ActivityQuery{}, false
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if query.Offset, err = strconv.Atoi(raw); err != nil || query.Offset < 0 {
			errs.badRequest(c, err, "offset must be a non-negative integer")
			return service.ActivityQuery{}, false
		}
	}
	return query, true
}
