package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ledgerapp "github.com/restops/backend/internal/application/ledger"
	orderingapp "github.com/restops/backend/internal/application/ordering"
	"github.com/restops/backend/internal/domain/ledger"
	"github.com/restops/backend/internal/infrastructure/auth"
	"github.com/restops/backend/internal/infrastructure/cache"
	"github.com/restops/backend/internal/infrastructure/config"
	"github.com/restops/backend/internal/infrastructure/logger"
	"github.com/restops/backend/internal/infrastructure/persistence"
	"github.com/restops/backend/internal/infrastructure/printing"
	"github.com/restops/backend/internal/infrastructure/telemetry"
	"github.com/restops/backend/internal/interfaces/http/handler"
	"github.com/restops/backend/internal/interfaces/http/middleware"
	"github.com/restops/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/restops/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			RestOps Backend API
//	@version		1.0
//	@description	Restaurant back-office API: per-location safe ledger, shift reconciliation and vendor ordering

//	@contact.name	API Support
//	@contact.url	https://github.com/restops/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx := context.Background()

	// OTEL logs bridge: when enabled, replace the plain logger with one that
	// tees every record to the collector as well as stdout.
	logsProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Logs.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize OTEL logger provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := logsProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down OTEL logger provider", zap.Error(err))
		}
	}()
	if logsProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, logsProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Fatal("Failed to create bridged logger", zap.Error(err))
		}
		log = bridged
	}

	log.Info("Starting RestOps Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Distributed tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics export
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Metrics.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Metrics.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Continuous profiling
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:             cfg.Profiler.Enabled,
		ServerAddress:       cfg.Profiler.ServerAddress,
		ApplicationName:     cfg.App.Name,
		ProfileCPU:          true,
		ProfileAllocObjects: true,
		ProfileAllocSpace:   true,
		ProfileInuseObjects: true,
		ProfileInuseSpace:   true,
		ProfileGoroutines:   true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if profiler.IsEnabled() && cfg.Profiler.SpanProfilesEnable {
		if err := tracerProvider.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}

	// Initialize database connection
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.EnableTracing(&cfg.Telemetry); err != nil {
		log.Warn("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Initialize repositories
	balanceRepo := persistence.NewGormSafeBalanceRepository(db.DB)
	transactionRepo := persistence.NewGormSafeTransactionRepository(db.DB)
	summaryRepo := persistence.NewGormCashSummaryRepository(db.DB)
	orderRepo := persistence.NewGormVendorOrderRepository(db.DB)
	repos := ledger.Repositories{
		Balances:     balanceRepo,
		Transactions: transactionRepo,
		Summaries:    summaryRepo,
	}
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Initialize application services
	reconciliationService := ledgerapp.NewReconciliationService(repos, uow)
	depositService := ledgerapp.NewDepositService(uow)
	queryService := ledgerapp.NewQueryService(repos)
	vendorOrderService := orderingapp.NewVendorOrderService(orderRepo)

	// Token verification; tokens are issued by the identity provider
	jwtService := auth.NewJWTService(cfg.JWT)

	// Idempotency store backed by Redis, with in-memory fallback for
	// development setups without one
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	)
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}

	// The token blacklist shares the Redis connection with the idempotency
	// store when one is available
	var tokenBlacklist auth.TokenBlacklist
	if redisStore, ok := idempotencyStore.(*cache.RedisIdempotencyStore); ok {
		tokenBlacklist = auth.NewRedisTokenBlacklistWithClient(redisStore.GetClient())
	} else {
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	}

	// PDF rendering for vendor order reports
	var pdfRenderer printing.PDFRenderer
	if cfg.Printing.Enabled {
		chromeRenderer := printing.NewChromedpRenderer(cfg.Printing, log)
		defer func() {
			if err := chromeRenderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		pdfRenderer = chromeRenderer
		log.Info("PDF rendering enabled",
			zap.Duration("render_timeout", cfg.Printing.RenderTimeout))
	}

	// Initialize HTTP handlers
	ledgerHandler := handler.NewLedgerHandler(reconciliationService, depositService, queryService)
	vendorOrderHandler := handler.NewVendorOrderHandler(vendorOrderService, pdfRenderer)
	systemHandler := handler.NewSystemHandler(db)

	// Ledger metrics: per-operation counters plus a periodic snapshot of
	// every location's safe balance
	ledgerMetrics, err := telemetry.NewLedgerMetrics(telemetry.LedgerMetricsConfig{
		Meter:           meterProvider.Meter("restops-backend/ledger"),
		Logger:          log,
		CollectInterval: cfg.Ledger.BalanceMetricsInterval,
		BalanceProvider: persistence.NewGormBalanceMetricsProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to initialize ledger metrics", zap.Error(err))
	}
	ledgerHandler.SetMetrics(ledgerMetrics)
	ledgerMetrics.StartPeriodicCollection(ctx, cfg.Ledger.BalanceMetricsInterval)
	defer ledgerMetrics.Stop()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Tracing/Metrics/Profiling - Observability (if enabled)
	// 9. Auth - Token verification with public-path skips
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Observability middleware
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     true,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	if cfg.Metrics.Enabled {
		engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: meterProvider,
			ServiceName:   cfg.Telemetry.ServiceName,
			Enabled:       true,
		}))
	}
	if cfg.Profiler.Enabled {
		engine.Use(middleware.Profiling())
	}

	// Token verification for everything except public paths
	authMiddleware := middleware.AuthWithConfig(middleware.AuthConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/health",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/swagger",
		},
		Logger: log,
	})
	engine.Use(authMiddleware)

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	swaggerProtection := middleware.SwaggerProtection(middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}, authMiddleware)
	engine.GET("/swagger/*any", swaggerProtection, ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Replay protection for mutating ledger and order submissions
	idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
		Store:  idempotencyStore,
		TTL:    cfg.Ledger.IdempotencyKeyTTL,
		Logger: log,
	})

	// Ledger domain: per-location safe balance, reconciliations, deposits
	ledgerRoutes := router.NewDomainGroup("ledger", "/locations/:locationId/ledger")
	ledgerRoutes.Use(idempotency)
	ledgerRoutes.POST("/reconciliations", ledgerHandler.ReconcileShift)
	ledgerRoutes.POST("/deposits", ledgerHandler.DepositToBank)
	ledgerRoutes.GET("/balance", ledgerHandler.GetBalance)
	ledgerRoutes.GET("/transactions", ledgerHandler.GetHistory)
	ledgerRoutes.GET("/summaries", ledgerHandler.ListCashSummaries)
	ledgerRoutes.GET("/audit", ledgerHandler.AuditConservation)

	// Ordering domain: per-location vendor order submission and listing
	orderSubmitRoutes := router.NewDomainGroup("ordering", "/locations/:locationId/orders")
	orderSubmitRoutes.Use(idempotency)
	orderSubmitRoutes.POST("", vendorOrderHandler.SubmitOrder)
	orderSubmitRoutes.GET("", vendorOrderHandler.ListOrders)

	// Order lookup and report generation by order ID
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.GET("/:id", vendorOrderHandler.GetOrder)
	orderRoutes.GET("/:id/report", vendorOrderHandler.GetReport)
	orderRoutes.GET("/:id/report/pdf", vendorOrderHandler.ExportReportPDF)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(ledgerRoutes).
		Register(orderSubmitRoutes).
		Register(orderRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
