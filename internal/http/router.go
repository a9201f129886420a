package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"math-solver/internal/domain"
	"math-solver/internal/service"
)

// RouterDeps agrupa lo necesario para montar las rutas.
type RouterDeps struct {
	Logger     *zap.Logger
	JWT        *service.JWTService
	Recorder   ActivityRecorder
	Metrics    *Metrics
	CORSOrigin string

	Auth       *AuthHandler
	Users      *UserHandler
	Activity   *ActivityHandler
	Admin      *AdminHandler
	Solver     *SolverHandler
	HealthPing func() error
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(deps.CORSOrigin))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	r.GET("/health", healthHandler(deps.HealthPing))

	api := r.Group("")
	api.Use(jsonContentTypeMiddleware())

	requireAuth := JWTAuthMiddleware(deps.JWT)
	logActivity := func(action string) gin.HandlerFunc {
		return LogActivity(deps.Recorder, action)
	}

	auth := api.Group("/auth")
	auth.POST("/signup", deps.Auth.Signup)
	auth.POST("/verify-email", deps.Auth.VerifyEmail)
	auth.POST("/resend-verification", deps.Auth.ResendVerification)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/forgot-password", deps.Auth.ForgotPassword)
	auth.POST("/reset-password", deps.Auth.ResetPassword)
	auth.GET("/me", requireAuth, deps.Auth.Me)
	auth.POST("/logout", requireAuth, deps.Auth.Logout)
	r.GET("/auth/google", deps.Auth.GoogleLogin)
	r.GET("/auth/google/callback", deps.Auth.GoogleCallback)

	users := api.Group("/users", requireAuth)
	users.GET("/profile", logActivity(domain.ActionViewProfile), deps.Users.GetProfile)
	users.PUT("/profile", logActivity(domain.ActionUpdateProfile), deps.Users.UpdateProfile)
	users.DELETE("/profile", logActivity(domain.ActionDeleteAccount), deps.Users.DeleteAccount)

	library := users.Group("/library")
	library.GET("", logActivity(domain.ActionViewLibrary), deps.Users.GetLibrary)
	library.POST("", logActivity(domain.ActionAddToLibrary), deps.Users.AddToLibrary)
	library.DELETE("/:itemId", logActivity(domain.ActionRemoveFromLibrary), deps.Users.RemoveFromLibrary)
	library.DELETE("", logActivity(domain.ActionClearLibrary), deps.Users.ClearLibrary)

	activity := users.Group("/activity")
	activity.GET("", deps.Activity.List)
	activity.GET("/stats", deps.Activity.Stats)
	activity.DELETE("", deps.Activity.Clear)

	admin := api.Group("/admin", requireAuth, RequireAdmin())
	admin.GET("/users", deps.Admin.ListUsers)
	admin.GET("/users/:userId/activity", deps.Admin.UserActivity)
	admin.GET("/stats", deps.Admin.Stats)

	api.POST("/gemini/process", OptionalJWTAuth(deps.JWT), deps.Solver.Process)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "path": c.Request.URL.Path})
	})

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}

// corsMiddleware permite el origen del front end con credenciales.
func corsMiddleware(origin string) gin.HandlerFunc {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	return func(c *gin.Context) {
		if origin != "" && c.GetHeader("Origin") == origin {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Add("Vary", "Origin")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func healthHandler(ping func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			if err := ping(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
