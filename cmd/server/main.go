package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rentledger/backend/internal/application/payments"
	"github.com/rentledger/backend/internal/domain/shared/valueobject"
	"github.com/rentledger/backend/internal/infrastructure/auth"
	"github.com/rentledger/backend/internal/infrastructure/config"
	"github.com/rentledger/backend/internal/infrastructure/event"
	"github.com/rentledger/backend/internal/infrastructure/logger"
	"github.com/rentledger/backend/internal/infrastructure/persistence"
	"github.com/rentledger/backend/internal/infrastructure/settings"
	"github.com/rentledger/backend/internal/infrastructure/telemetry"
	"github.com/rentledger/backend/internal/interfaces/http/dto"
	"github.com/rentledger/backend/internal/interfaces/http/handler"
	"github.com/rentledger/backend/internal/interfaces/http/middleware"
	"github.com/rentledger/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	log, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Warn("tracer provider shutdown failed", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Redis-backed currency cache; the server runs without it when Redis
	// is unreachable, falling back to authoritative values only
	var currencyResolver payments.CurrencyResolver
	redisClient, err := settings.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Warn("redis unavailable, currency cache disabled", zap.Error(err))
	} else {
		defer func() { _ = redisClient.Close() }()
		currencyResolver = settings.NewCurrencyCache(redisClient, cfg.Billing.CurrencyCacheTTL, valueobject.Currency(cfg.Billing.DefaultCurrency))
	}

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewPaymentNotificationHandler(log))

	// Repositories
	entryRepo := persistence.NewGormPaymentEntryRepository(db.DB)
	recordRepo := persistence.NewGormFinancialRecordRepository(db.DB)
	refundRepo := persistence.NewGormDepositRefundRepository(db.DB)
	unitRepo := persistence.NewGormTenantUnitRepository(db.DB)
	rentRepo := persistence.NewGormRentInvoiceRepository(db.DB)
	maintenanceRepo := persistence.NewGormMaintenanceInvoiceRepository(db.DB)
	txManager := persistence.NewTxManager(db.DB)

	// Application services
	ledgerService := payments.NewLedgerService(entryRepo, recordRepo, refundRepo, unitRepo,
		currencyResolver, valueobject.Currency(cfg.Billing.DefaultCurrency))
	reconciliationService := payments.NewReconciliationService(ledgerService, recordRepo, rentRepo, maintenanceRepo, eventBus)
	paymentEntryService := payments.NewPaymentEntryService(entryRepo, unitRepo, reconciliationService, eventBus)
	advanceRentService := payments.NewAdvanceRentService(unitRepo, rentRepo, entryRepo, txManager, eventBus)

	// HTTP
	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := dto.RegisterValidations(); err != nil {
		log.Fatal("failed to register request validators", zap.Error(err))
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("invalid trusted proxies", zap.Error(err))
		}
	}

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

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.JWTAuthMiddleware(jwtService),
	)

	router.NewRouter(engine).
		Register(handler.NewSystemHandler(cfg.App.Name, version)).
		Register(handler.NewLedgerHandler(ledgerService)).
		Register(handler.NewPaymentEntryHandler(paymentEntryService)).
		Register(handler.NewBillingHandler(reconciliationService, advanceRentService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}

	log.Info("server stopped")
}
