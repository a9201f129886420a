package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/oauth"
	"math-solver/internal/repository"
	"math-solver/internal/service"
)

// AuthHandler expone el ciclo de vida de la cuenta bajo /auth.
type AuthHandler struct {
	logger      *zap.Logger
	authServ    *service.AuthService
	google      oauth.Provider
	states      repository.OAuthStateStore
	frontendURL string
	errs        errorWriter
}

func NewAuthHandler(
	logger *zap.Logger,
	authServ *service.AuthService,
	google oauth.Provider,
	states repository.OAuthStateStore,
	frontendURL string,
	production bool,
) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{
		logger:      logger,
		authServ:    authServ,
		google:      google,
		states:      states,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		errs:        newErrorWriter(logger, production),
	}
}

// Signup maneja POST /auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "invalid request")
		return
	}

	res, err := h.authServ.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errs.write(c, err, "signup failed")
		return
	}

	msg := "Signup successful. Please check your email to verify your account."
	if !res.VerificationEmailSent {
		msg = "Signup successful, but the verification email could not be sent. Please request a new one."
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":               msg,
		"user":                  res.User,
		"verificationEmailSent": res.VerificationEmailSent,
	})
}

// VerifyEmail maneja POST /auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "token is required")
		return
	}

	user, err := h.authServ.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		h.errs.write(c, err, "email verification failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully.", "user": user})
}

// ResendVerification maneja POST /auth/resend-verification.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "email is required")
		return
	}

	if err := h.authServ.ResendVerification(c.Request.Context(), req.Email); err != nil {
		h.errs.write(c, err, "resend verification failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent."})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "invalid request")
		return
	}

	res, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password, clientInfo(c))
	if err != nil {
		h.errs.write(c, err, "login failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful.", "token": res.Token, "user": res.User})
}

// ForgotPassword maneja POST /auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "email is required")
		return
	}

	msg, err := h.authServ.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		h.errs.write(c, err, "forgot password failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// ResetPassword maneja POST /auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token       string `json:"token" binding:"required"`
		Password    string `json:"password"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errs.badRequest(c, err, "token is required")
		return
	}
	password := req.Password
	if password == "" {
		password = req.NewPassword
	}

	err := h.authServ.ResetPassword(c.Request.Context(), service.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: password,
	})
	if err != nil {
		h.errs.write(c, err, "reset password failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully. You can now log in."})
}

// Me maneja GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	user, err := h.authServ.CurrentUser(c.Request.Context(), claims.Identity.ID)
	if err != nil {
		h.errs.write(c, err, "could not load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}

// Logout maneja POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := GetAuthClaims(c); ok {
		h.authServ.Logout(c.Request.Context(), claims.Identity, clientInfo(c))
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully. Please remove token from client."})
}

// GoogleLogin maneja GET /auth/google.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.google == nil || h.states == nil {
		h.redirectError(c, "google_not_configured")
		return
	}
	state, err := oauth.NewState()
	if err != nil {
		h.logger.Error("generate oauth state failed", zap.Error(err))
		h.redirectError(c, "oauth_failed")
		return
	}
	if err := h.states.Save(c.Request.Context(), state, oauth.StateTTL); err != nil {
		h.logger.Error("save oauth state failed", zap.Error(err))
		h.redirectError(c, "oauth_failed")
		return
	}
	c.Redirect(http.StatusFound, h.google.AuthCodeURL(state))
}

// GoogleCallback maneja GET /auth/google/callback.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.google == nil || h.states == nil {
		h.redirectError(c, "google_not_configured")
		return
	}
	if providerErr := c.Query("error"); providerErr != "" {
		h.logger.Warn("oauth provider returned error", zap.String("error", providerErr))
		h.redirectError(c, "access_denied")
		return
	}

	valid, err := h.states.Consume(c.Request.Context(), c.Query("state"))
	if err != nil {
		h.logger.Error("consume oauth state failed", zap.Error(err))
		h.redirectError(c, "oauth_failed")
		return
	}
	if !valid {
		h.redirectError(c, "invalid_state")
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		h.logger.Warn("oauth exchange failed", zap.Error(err))
		h.redirectError(c, "oauth_failed")
		return
	}

	user, err := h.authServ.OAuthLogin(c.Request.Context(), service.OAuthInput{
		Provider:    profile.Provider,
		ProviderID:  profile.ProviderID,
		DisplayName: profile.DisplayName,
		Email:       profile.Email,
		PhotoURL:    profile.PhotoURL,
	})
	if err != nil {
		h.logger.Error("oauth login failed", zap.Error(err))
		h.redirectError(c, "oauth_failed")
		return
	}

	token, err := h.authServ.IssueToken(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		h.redirectError(c, "oauth_failed")
		return
	}
	c.Redirect(http.StatusFound, h.frontendURL+"?token="+url.QueryEscape(token))
}

func (h *AuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.frontendURL+"/login?error="+url.QueryEscape(code))
}
