package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/service"
)

// AdminHandler expone el panel de administracion.
type AdminHandler struct {
	logger   *zap.Logger
	adminSrv *service.AdminService
	errs     errorWriter
}

func NewAdminHandler(logger *zap.Logger, adminSrv *service.AdminService, production bool) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{logger: logger, adminSrv: adminSrv, errs: newErrorWriter(logger, production)}
}

// ListUsers maneja GET /admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminSrv.ListUsers(c.Request.Context())
	if err != nil {
		h.errs.write(c, err, "error fetching users")
		return
	}
	c.JSON(http.StatusOK, users)
}

// UserActivity maneja GET /admin/users/:userId/activity.
func (h *AdminHandler) UserActivity(c *gin.Context) {
	query, ok := parseActivityQuery(c, h.errs)
	if !ok {
		return
	}
	page, err := h.adminSrv.UserActivity(c.Request.Context(), c.Param("userId"), query)
	if err != nil {
		h.errs.write(c, err, "error fetching user activity")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Stats maneja GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminSrv.Stats(c.Request.Context())
	if err != nil {
		h.errs.write(c, err, "error fetching system stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
