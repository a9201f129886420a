package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/service"
)

// UserHandler expone perfil y biblioteca del usuario autenticado.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	errs     errorWriter
}

func NewUserHandler(logger *zap.Logger, userServ *service.UserService, production bool) *UserHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserHandler{logger: logger, userServ: userServ, errs: newErrorWriter(logger, production)}
}

// GetProfile maneja GET /users/profile.
func (h *UserHandler) GetProfile(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	profile, err := h.userServ.Profile(c.Request.Context(), claims.Identity.ID)
	if err != nil {
		h.errs.write(c, err, "error fetching profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile maneja PUT /users/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "invalid request")
		return
	}
	claims, _ := GetAuthClaims(c)
	profile, err := h.userServ.UpdateProfile(c.Request.Context(), claims.Identity.ID, req.Name)
	if err != nil {
		h.errs.write(c, err, "error updating profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully", "user": profile})
}

// DeleteAccount maneja DELETE /users/profile.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	if err := h.userServ.DeleteAccount(c.Request.Context(), claims.Identity.ID); err != nil {
		h.errs.write(c, err, "error deleting account")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// GetLibrary maneja GET /users/library.
func (h *UserHandler) GetLibrary(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	items, err := h.userServ.Library(c.Request.Context(), claims.Identity.ID)
	if err != nil {
		h.errs.write(c, err, "error fetching library")
		return
	}
	c.JSON(http.StatusOK, items)
}

// AddToLibrary maneja POST /users/library.
func (h *UserHandler) AddToLibrary(c *gin.Context) {
	var req struct {
		Problem  string `json:"problem"`
		Solution string `json:"solution"`
		Title    string `json:"title"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "invalid request")
		return
	}
	claims, _ := GetAuthClaims(c)
	item, err := h.userServ.AddToLibrary(c.Request.Context(), claims.Identity.ID, service.LibraryItemInput{
		Problem:  req.Problem,
		Solution: req.Solution,
		Title:    req.Title,
	})
	if err != nil {
		h.errs.write(c, err, "error adding to library")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Added to library", "item": item})
}

// RemoveFromLibrary maneja DELETE /users/library/:itemId.
func (h *UserHandler) RemoveFromLibrary(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	if err := h.userServ.RemoveFromLibrary(c.Request.Context(), claims.Identity.ID, c.Param("itemId")); err != nil {
		h.errs.write(c, err, "error removing from library")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item removed from library"})
}

// ClearLibrary maneja DELETE /users/library.
func (h *UserHandler) ClearLibrary(c *gin.Context) {
	claims, _ := GetAuthClaims(c)
	if err := h.userServ.ClearLibrary(c.Request.Context(), claims.Identity.ID); err != nil {
		h.errs.write(c, err, "error clearing library")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Library cleared successfully"})
}
