package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"math-solver/internal/config"
	"math-solver/internal/db"
	"math-solver/internal/email"
	apihttp "math-solver/internal/http"
	"math-solver/internal/llm"
	"math-solver/internal/oauth"
	"math-solver/internal/repository"
	"math-solver/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := newLogger(cfg)
	defer logger.Sync()

	store, err := db.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("store init", zap.Error(err))
	}
	defer store.Close()

	var emailSender email.Sender = email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS, cfg.FrontendURL)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	states := repository.NewMemoryOAuthStateStore()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory oauth state", zap.Error(err))
			_ = redisClient.Close()
		} else {
			states = repository.NewRedisOAuthStateStore(redisClient)
			defer redisClient.Close()
		}
		cancel()
	}

	var googleProvider oauth.Provider
	if cfg.GoogleOAuthEnabled() {
		googleProvider = oauth.NewGoogleProvider(oauth.GoogleConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			CallbackURL:  cfg.GoogleCallbackURL,
		})
	} else {
		logger.Warn("google oauth not configured")
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	llmClient := llm.NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, logger)

	authSvc := service.NewAuthService(logger, store.Users, emailSender, hasher, jwtSvc)
	userSvc := service.NewUserService(logger, store.Users)
	activitySvc := service.NewActivityService(logger, store.Users)
	adminSvc := service.NewAdminService(logger, store.Users)
	solverSvc := service.NewSolverService(logger, llmClient, userSvc)

	production := cfg.IsProduction()
	router := apihttp.NewRouter(apihttp.RouterDeps{
		Logger:     logger,
		JWT:        jwtSvc,
		Recorder:   activitySvc,
		Metrics:    apihttp.NewMetrics(),
		CORSOrigin: cfg.CORSOrigin,
		Auth:       apihttp.NewAuthHandler(logger, authSvc, googleProvider, states, cfg.FrontendURL, production),
		Users:      apihttp.NewUserHandler(logger, userSvc, production),
		Activity:   apihttp.NewActivityHandler(logger, activitySvc, production),
		Admin:      apihttp.NewAdminHandler(logger, adminSvc, production),
		Solver:     apihttp.NewSolverHandler(logger, solverSvc, production),
		HealthPing: store.Ping,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	// envios de email pendientes
	authSvc.Wait()
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
