package v1

import (
	"log/slog"
	"time"

	"studio-inquiry-backend/internal/delivery/http/middleware"
	"studio-inquiry-backend/internal/domain"
	"studio-inquiry-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ContactUC      domain.ContactUsecase
	HealthUC       domain.HealthUsecase
	RateLimiter    *middleware.RateLimiter
	Logger         *slog.Logger
	AllowedOrigins []string
	// Rate limiting; zero thresholds disable the corresponding limit
	RateLimitWindow  time.Duration
	GlobalRateLimit  int
	ContactRateLimit int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.AllowedOrigins)) // CORS must be first
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Logger))
	r.Use(middleware.BodyLimit(middleware.MaxBodyBytes))
	if deps.RateLimiter != nil && deps.GlobalRateLimit > 0 {
		r.Use(deps.RateLimiter.Middleware(middleware.GlobalRateLimitConfig(deps.GlobalRateLimit, deps.RateLimitWindow)))
	}

	r.NoRoute(func(c *gin.Context) {
		c.Error(apperror.NotFound("Not found"))
	})

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	var contactLimit []gin.HandlerFunc
	if deps.RateLimiter != nil && deps.ContactRateLimit > 0 {
		contactLimit = append(contactLimit, deps.RateLimiter.Middleware(middleware.ContactRateLimitConfig(deps.ContactRateLimit, deps.RateLimitWindow)))
	}
	NewContactHandler(api, deps.ContactUC, contactLimit...)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
