package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studio-inquiry-backend/config"
	_ "studio-inquiry-backend/docs" // Important for Swagger
	"studio-inquiry-backend/internal/delivery/http/middleware"
	v1 "studio-inquiry-backend/internal/delivery/http/v1"
	"studio-inquiry-backend/internal/repository"
	"studio-inquiry-backend/internal/usecase"
	"studio-inquiry-backend/pkg/email"
	"studio-inquiry-backend/pkg/logger"
	"studio-inquiry-backend/pkg/redis"
	"studio-inquiry-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Studio Inquiry API
// @version         1.0
// @description     Contact inquiry endpoint for the studio marketing site.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting studio inquiry backend", "port", cfg.Port)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Setup Inquiry Store
	store, err := repository.Open(ctx, cfg.InquiryStoreURL)
	if err != nil {
		logger.Log.Error("Failed to open inquiry store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Log.Info("Inquiry store ready", "backend", store.Backend)

	// 4. Setup Rate Limiter (Redis is optional)
	var redisClient *goredis.Client
	redisClient, err = redis.NewClient(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		logger.Log.Info("Redis not configured - rate limiting uses in-process counters")
	case err != nil:
		logger.Log.Warn("Redis unavailable - rate limiting uses in-process counters", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
	}
	rateLimiter := middleware.NewRateLimiter(redisClient, logger.Log)
	go rateLimiter.RunSweeper(ctx, cfg.RateLimitWindow())

	// 5. Setup UseCases
	contactOpts := []usecase.ContactOption{usecase.WithWriteTimeout(cfg.RequestTimeout)}
	emailService := email.NewEmailService(cfg)
	if emailService.IsConfigured() {
		contactOpts = append(contactOpts, usecase.WithNotifier(emailService))
	} else {
		logger.Log.Warn("Email service not fully configured - inquiries are stored without notification")
	}
	contactUC := usecase.NewContactUsecase(store.Inquiries, validation.NewSchema(), logger.Log, contactOpts...)
	healthUC := usecase.NewHealthUsecase(store.Inquiries, store.Backend)

	// 6. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC:        contactUC,
		HealthUC:         healthUC,
		RateLimiter:      rateLimiter,
		Logger:           logger.Log,
		AllowedOrigins:   cfg.AllowedOrigins,
		RateLimitWindow:  cfg.RateLimitWindow(),
		GlobalRateLimit:  cfg.RateLimitGlobalThreshold,
		ContactRateLimit: cfg.RateLimitContactThreshold,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
			stop()
		}
	}()

	// Graceful Shutdown
	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	if err := contactUC.WaitNotifications(shutdownCtx); err != nil {
		logger.Log.Warn("Inquiry notifications still pending at exit", "error", err)
	}

	logger.Log.Info("Server exiting")
}
