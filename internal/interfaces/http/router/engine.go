package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/infrastructure/logger"
	"github.com/school/backend/internal/interfaces/http/dto"
	"github.com/school/backend/internal/interfaces/http/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// EngineConfig collects everything NewEngine wires together
type EngineConfig struct {
	Logger         *zap.Logger
	Handlers       Handlers
	Guards         Guards
	Tracing        middleware.TracingConfig
	Metrics        middleware.HTTPMetricsConfig
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	Swagger        middleware.SwaggerConfig
	MaxBodySize    int64
	TrustedProxies []string
	// RateLimiter throttles every request by client IP; nil disables it
	RateLimiter *middleware.RateLimiter
}

// NewEngine builds the gin engine. Global middleware runs in this order:
// request id, logging, recovery, tracing, metrics, security headers, CORS,
// body limit, rate limit.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Tracing(cfg.Tracing),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(cfg.Metrics),
		middleware.Secure(cfg.Security),
		middleware.CORS(cfg.CORS),
	)
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found", nil))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrCodeMethodNotAllowed, "Method not allowed", nil))
	})

	engine.GET("/health", cfg.Handlers.System.Health)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler))

	r := NewRouter(engine)
	for _, g := range Groups(cfg.Handlers, cfg.Guards) {
		r.Register(g)
	}
	r.Setup()

	log.Info("Routes registered", zap.Int("count", len(engine.Routes())))
	return engine, nil
}
