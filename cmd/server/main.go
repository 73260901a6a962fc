package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/opencrm/backend/internal/application/catalog"
	ingestapp "github.com/opencrm/backend/internal/application/ingest"
	partnerapp "github.com/opencrm/backend/internal/application/partner"
	tradeapp "github.com/opencrm/backend/internal/application/trade"
	"github.com/opencrm/backend/internal/infrastructure/cache"
	"github.com/opencrm/backend/internal/infrastructure/config"
	"github.com/opencrm/backend/internal/infrastructure/event"
	"github.com/opencrm/backend/internal/infrastructure/logger"
	"github.com/opencrm/backend/internal/infrastructure/persistence"
	"github.com/opencrm/backend/internal/infrastructure/telemetry"
	"github.com/opencrm/backend/internal/interfaces/http/handler"
	"github.com/opencrm/backend/internal/interfaces/http/middleware"
	"github.com/opencrm/backend/internal/interfaces/http/router"

	_ "github.com/opencrm/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			CRM Backend API
//	@version		1.0
//	@description	Customer, product and order management API with bulk customer ingestion

//	@contact.name	API Support
//	@contact.url	https://github.com/opencrm/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

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
		_ = log.Sync()
	}()

	log.Info("Starting CRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// OpenTelemetry providers (no-ops when telemetry is disabled)
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
	defer shutdownWithTimeout(tracerProvider.Shutdown, log, "tracer provider")

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownWithTimeout(meterProvider.Shutdown, log, "meter provider")

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownWithTimeout(loggerProvider.Shutdown, log, "logger provider")

	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
		log.Info("Log export to OpenTelemetry collector enabled")
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Initialize repositories and transaction manager
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txManager := persistence.NewGormTransactionManager(db.DB)

	// Initialize event bus with an audit trail for all domain events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogger(log))

	// Idempotency store for bulk ingest replay detection
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log))
	idempotencyStore, err := storeFactory.CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize application services
	customerService := partnerapp.NewCustomerService(customerRepo, eventBus)
	productService := catalogapp.NewProductService(productRepo, eventBus)
	orderService := tradeapp.NewOrderService(orderRepo, customerRepo, productRepo, eventBus)
	bulkService := ingestapp.NewBulkCustomerService(customerRepo, txManager, eventBus, ingestapp.Options{
		MaxBatchSize: cfg.Ingest.MaxBatchSize,
		MaxErrors:    cfg.Ingest.MaxErrors,
	}, log)

	// Business metrics
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("crm.business"),
			Logger: log,
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		}
	}

	// Initialize HTTP handlers
	customerHandler := handler.NewCustomerHandler(customerService)
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	bulkHandler := handler.NewBulkCustomerHandler(bulkService,
		middleware.Idempotency(idempotencyStore, cfg.Ingest.IdempotencyTTL, log))
	systemHandler := handler.NewSystemHandler(db)

	if businessMetrics != nil {
		customerHandler.SetMetrics(businessMetrics)
		orderHandler.SetMetrics(businessMetrics)
		bulkHandler.SetMetrics(businessMetrics)
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, outermost first
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	if tracerProvider.IsEnabled() {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName))
		engine.Use(middleware.TraceRequestID())
	}
	engine.Use(middleware.HTTPMetrics(meterProvider))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer func() {
			if err := rateLimiter.Close(); err != nil {
				log.Error("Error closing rate limiter", zap.Error(err))
			}
		}()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Swagger documentation endpoint
	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// API routes. The bulk route registers before the customer routes so
	// /customers/bulk is matched ahead of /customers/:id.
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(
		systemHandler,
		bulkHandler,
		customerHandler,
		productHandler,
		orderHandler,
	)
	r.Setup()

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
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

func shutdownWithTimeout(shutdown func(context.Context) error, log *zap.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
