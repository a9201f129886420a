package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/service"
)

// SolverHandler expone POST /gemini/process.
type SolverHandler struct {
	logger    *zap.Logger
	solverSrv *service.SolverService
	errs      errorWriter
}

func NewSolverHandler(logger *zap.Logger, solverSrv *service.SolverService, production bool) *SolverHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolverHandler{logger: logger, solverSrv: solverSrv, errs: newErrorWriter(logger, production)}
}

// Process resuelve la expresion; con un token valido el resultado va al historial del usuario.
func (h *SolverHandler) Process(c *gin.Context) {
	var req struct {
		Latex string `json:"latex"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "invalid request")
		return
	}

	var userID string
	if claims, ok := GetAuthClaims(c); ok {
		userID = claims.Identity.ID
	}
	res, err := h.solverSrv.Solve(c.Request.Context(), userID, req.Latex)
	if err != nil {
		h.errs.write(c, err, "error processing latex")
		return
	}
	c.JSON(http.StatusOK, res)
}
