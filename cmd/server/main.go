package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/retailops/backend/docs"
	assistantapp "github.com/retailops/backend/internal/application/assistant"
	identityapp "github.com/retailops/backend/internal/application/identity"
	integrationapp "github.com/retailops/backend/internal/application/integration"
	notificationapp "github.com/retailops/backend/internal/application/notification"
	reportapp "github.com/retailops/backend/internal/application/report"
	"github.com/retailops/backend/internal/infrastructure/auth"
	"github.com/retailops/backend/internal/infrastructure/cache"
	"github.com/retailops/backend/internal/infrastructure/config"
	"github.com/retailops/backend/internal/infrastructure/ecommerce"
	"github.com/retailops/backend/internal/infrastructure/llm"
	"github.com/retailops/backend/internal/infrastructure/logger"
	"github.com/retailops/backend/internal/infrastructure/ordersystem"
	"github.com/retailops/backend/internal/infrastructure/persistence"
	"github.com/retailops/backend/internal/infrastructure/realtime"
	"github.com/retailops/backend/internal/infrastructure/scheduler"
	"github.com/retailops/backend/internal/infrastructure/telemetry"
	"github.com/retailops/backend/internal/interfaces/http/handler"
	"github.com/retailops/backend/internal/interfaces/http/middleware"
	"github.com/retailops/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

//	@title			Retail Ops Dashboard API
//	@version		1.0
//	@description	Sales and inventory reporting, assistant, notifications and integration admin

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// A missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := logger.ConfigForEnvironment(cfg.App.Env)
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = cfg.Log.Format
	}
	if cfg.Log.Output != "" {
		logCfg.Output = cfg.Log.Output
	}
	logCfg.Service = cfg.App.Name
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting retail operations backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("timezone", cfg.App.Location().String()),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	tracerProvider.EnableSpanProfiles(profiler)
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	logsProvider, err := telemetry.NewLoggerProvider(rootCtx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = logsProvider.Bridge(log, cfg.Telemetry.ServiceName, logger.ParseLevel(logCfg.Level))
	metrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter(cfg.Telemetry.ServiceName))
	if err != nil {
		log.Warn("Business metrics unavailable", zap.Error(err))
		metrics = telemetry.NopBusinessMetrics()
	}

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, log); err != nil {
		log.Warn("Database tracing unavailable", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Credential store
	store, redisClient, err := cache.NewCredentialStoreFactory(cfg.Credentials, cfg.Redis, db.DB, cache.WithLogger(log)).Create(rootCtx)
	if err != nil {
		log.Fatal("Failed to initialize credential store", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	snapshotRepo := persistence.NewGormSnapshotRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Application services
	userService := identityapp.NewUserService(userRepo, log)
	notificationService := notificationapp.NewService(notificationRepo, log)
	reportService := reportapp.NewReportService(orderRepo, snapshotRepo, productRepo, cfg.App.Location())
	// Outbound clients share one traced transport
	outbound := telemetry.NewHTTPTransport(nil)
	languageModel := llm.NewClient(cfg.LLM, log).WithTransport(outbound)
	assistantService := assistantapp.NewService(languageModel, reportService, metrics, log)

	orderSystem := ordersystem.NewClient(cfg.OrderSystem, log).WithTransport(outbound)
	credentialService := integrationapp.NewCredentialService(orderSystem, store, cfg.OrderSystem, notificationService, log)
	syncService := integrationapp.NewSyncService(orderSystem, store, integrationapp.SyncRepositories{
		Orders:    orderRepo,
		Products:  productRepo,
		Snapshots: snapshotRepo,
	}, notificationService, cfg.Sync, metrics, log)
	webhookService := integrationapp.NewWebhookService(
		ecommerce.NewHMACVerifier(cfg.Ecommerce.WebhookSecret),
		ecommerce.NewOrderParser(),
		orderRepo,
		notificationService,
		metrics,
		log,
	)
	adminService := integrationapp.NewAdminService(credentialService, syncService, notificationService, integrationapp.IntegrationFlags{
		WebhookConfigured:     cfg.Ecommerce.WebhookSecret != "",
		LLMConfigured:         cfg.LLM.APIKey != "",
		OrderSystemConfigured: cfg.OrderSystem.BaseURL != "",
	}, log)

	// Scheduled jobs
	var cronTrigger *scheduler.CronTrigger
	if cfg.Scheduler.Enabled {
		cronTrigger = scheduler.NewCronTrigger(scheduler.CronTriggerConfig{
			JobTimeout: cfg.Scheduler.JobTimeout,
			Location:   cfg.App.Location(),
		}, log)
		if err := scheduler.RegisterJobs(cronTrigger, cfg.Scheduler, syncService, credentialService); err != nil {
			log.Fatal("Failed to register scheduled jobs", zap.Error(err))
		}
		if err := cronTrigger.Start(rootCtx); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
	}

	// Realtime notifications
	var hub *realtime.Hub
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(realtime.HubConfigFrom(cfg.Realtime), log)
		listener, err := realtime.NewListener(cfg.Database.DSN(), cfg.Realtime, hub, log)
		if err != nil {
			log.Fatal("Failed to start notification feed", zap.Error(err))
		}
		go listener.Run(rootCtx)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Warn("Invalid trusted proxies", zap.Error(err))
	}

	// Middleware order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Server span, tagged with request and user ids
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled), middleware.SpanAttributes())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	authChain := []gin.HandlerFunc{
		middleware.JWTAuth(auth.NewVerifier(cfg.Auth), log),
		middleware.CurrentUser(userService),
	}
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, cfg.HTTP.RateLimitBurst)
		defer rateLimiter.Stop()
		authChain = append(authChain, middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	var stream handler.StreamServer
	if hub != nil {
		stream = hub
	}
	router.Mount(engine, handler.NewHealthHandler(db), &router.API{
		Auth:          authChain,
		Me:            handler.NewMeHandler(),
		Reports:       handler.NewReportHandler(reportService),
		Assistant:     handler.NewAssistantHandler(assistantService),
		Notifications: handler.NewNotificationHandler(notificationService, stream),
		Admin:         handler.NewAdminHandler(adminService),
		Webhooks:      handler.NewWebhookHandler(webhookService, cfg.Ecommerce),
	})

	if cfg.Swagger.Enabled {
		if cfg.Swagger.RequireAuth {
			router.MountSwagger(engine, authChain...)
		} else {
			router.MountSwagger(engine)
		}
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if hub != nil {
		hub.Close()
	}
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cronTrigger != nil {
		if err := cronTrigger.Stop(ctx); err != nil {
			log.Warn("Scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Warn("Metrics shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Warn("Tracing shutdown failed", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler shutdown failed", zap.Error(err))
	}
	if err := logsProvider.Shutdown(ctx); err != nil {
		log.Warn("Log export shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
