package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/school/backend/internal/app"
	"github.com/school/backend/internal/infrastructure/auth"
	"github.com/school/backend/internal/infrastructure/config"
	"github.com/school/backend/internal/infrastructure/logger"
	"github.com/school/backend/internal/infrastructure/migration"
	"github.com/school/backend/internal/infrastructure/persistence"
	"github.com/school/backend/internal/infrastructure/telemetry"
	"github.com/school/backend/internal/interfaces/http/middleware"
	"github.com/school/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/school/backend/docs"
)

//	@title			School Management API
//	@version		1.0
//	@description	Students, teachers, classes, attendance, fees and marks for a single school.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsEnabled:    cfg.Telemetry.MetricsEnabled,
		LogsEnabled:       cfg.Telemetry.LogsEnabled,
	}

	// The log bridge is created before the real logger exists so its core
	// can be teed in; its own startup messages go nowhere.
	logProvider, err := telemetry.NewLoggerProvider(ctx, telCfg, zap.NewNop())
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}
	var extraCores []zapcore.Core
	if logProvider.IsEnabled() {
		extraCores = append(extraCores, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level)))
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	}, extraCores...)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync(log) }()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", cfg.App.Version),
		zap.String("port", cfg.App.Port))

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Profiling.Enabled,
		ServerAddress:   cfg.Profiling.ServerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		AuthToken:       cfg.Profiling.AuthToken,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	if profiler.IsEnabled() && tracerProvider.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName))

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:       cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:    cfg.Telemetry.DBLogFullSQL,
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
		DBName:        cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, telemetry.DBMetricsConfig{
		SlowThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err != nil {
		log.Fatal("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.Start(ctx)
	}

	if cfg.Database.AutoMigrate {
		if err := migrate(cfg, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	blacklist, closeBlacklist := auth.NewTokenBlacklist(cfg.Redis, log)
	jwtService := auth.NewJWTService(cfg.JWT)

	var schoolMetrics *telemetry.SchoolMetrics
	if meterProvider.IsEnabled() {
		schoolMetrics, err = telemetry.NewSchoolMetrics(
			meterProvider.Meter("school"),
			persistence.NewGormDashboardReader(db.DB),
			log.Named("metrics"))
		if err != nil {
			log.Fatal("Failed to create school metrics", zap.Error(err))
		}
		schoolMetrics.StartCollection(ctx, time.Minute)
	}

	container := app.New(app.Options{
		DB:                    db.DB,
		Logger:                log,
		JWT:                   jwtService,
		Blacklist:             blacklist,
		Metrics:               schoolMetrics,
		AttendanceConcurrency: cfg.Attendance.MaxConcurrency,
		ExposeErrors:          cfg.App.IsDevelopment(),
		Version:               cfg.App.Version,
	})

	if _, err := container.Staff.EnsureSuperAdmin(ctx,
		cfg.Seed.SuperAdminName, cfg.Seed.SuperAdminEmail, cfg.Seed.SuperAdminPassword); err != nil {
		log.Fatal("Failed to seed super admin", zap.Error(err))
	}

	if !cfg.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	var globalLimiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		globalLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer globalLimiter.Stop()
	}
	var loginGuard gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		loginLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer loginLimiter.Stop()
		loginGuard = middleware.RateLimit(loginLimiter)
	}

	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = profiler.IsEnabled()

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine, err := router.NewEngine(router.EngineConfig{
		Logger:   log,
		Handlers: container.Handlers(db),
		Guards: router.Guards{
			Authenticate: middleware.Authenticate(middleware.AuthConfig{
				JWT:       jwtService,
				Blacklist: blacklist,
				Users:     container.Users,
				Logger:    log.Named("auth"),
			}),
			Login: loginGuard,
			Extra: []gin.HandlerFunc{
				middleware.SpanAttributes(),
				middleware.Profiling(profilingCfg),
			},
		},
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		Metrics: middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			Enabled:       meterProvider.IsEnabled(),
		},
		CORS:     corsCfg,
		Security: middleware.DefaultSecurityConfig(),
		Swagger: middleware.SwaggerConfig{
			Enabled:    cfg.Swagger.Enabled,
			AllowedIPs: cfg.Swagger.AllowedIPs,
		},
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		RateLimiter:    globalLimiter,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	if schoolMetrics != nil {
		schoolMetrics.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := closeBlacklist(); err != nil {
		log.Warn("Failed to close token blacklist", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Failed to stop profiler", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Failed to shutdown log provider", zap.Error(err))
	}

	log.Info("Server exited")
}

// migrate brings the schema up to date before the server accepts traffic
func migrate(cfg *config.Config, log *zap.Logger) error {
	path := cfg.Database.MigrationsPath
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if _, err := os.Stat(path); err != nil {
		return err
	}

	m, err := migration.NewFromURL(cfg.Database.DSN(), path, log.Named("migrate"))
	if err != nil {
		return err
	}
	defer func() { _ = m.Close() }()
	return m.Up()
}
