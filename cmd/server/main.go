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
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	inventoryapp "github.com/saebakery/backend/internal/application/inventory"
	settingsapp "github.com/saebakery/backend/internal/application/settings"
	"github.com/saebakery/backend/internal/infrastructure/cache"
	"github.com/saebakery/backend/internal/infrastructure/config"
	"github.com/saebakery/backend/internal/infrastructure/event"
	"github.com/saebakery/backend/internal/infrastructure/logger"
	"github.com/saebakery/backend/internal/infrastructure/persistence"
	"github.com/saebakery/backend/internal/infrastructure/strategy/cost"
	"github.com/saebakery/backend/internal/infrastructure/telemetry"
	"github.com/saebakery/backend/internal/interfaces/http/handler"
	"github.com/saebakery/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting bakery inventory backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	dbOpts := []persistence.DatabaseOption{persistence.WithGormLogger(gormLog)}
	if tracerProvider.IsEnabled() {
		dbOpts = append(dbOpts, persistence.WithTracing())
	}
	db, err := persistence.NewDatabase(&cfg.Database, dbOpts...)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	settingRepo := persistence.NewGormSettingRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	// Settings service, with Redis-backed method cache when enabled
	settingsOpts := []settingsapp.ServiceOption{
		settingsapp.WithEventPublisher(eventBus),
		settingsapp.WithLogger(log.Named("settings")),
	}
	if cfg.Redis.Enabled {
		methodCache, err := cache.NewRedisMethodCache(
			cache.RedisConfig{
				Host:     cfg.Redis.Host,
				Port:     cfg.Redis.Port,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			},
			cache.WithTTL(cfg.Cache.MethodTTL),
			cache.WithCacheLogger(log.Named("cache")),
		)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := methodCache.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		settingsOpts = append(settingsOpts, settingsapp.WithCache(methodCache))
		log.Info("Costing method cache enabled", zap.Duration("ttl", cfg.Cache.MethodTTL))
	}
	settingsService := settingsapp.NewService(settingRepo, settingsOpts...)

	// Inventory services
	consumptionService := inventoryapp.NewConsumptionService(
		txScope,
		settingsService,
		cost.NewProvider(),
		inventoryapp.WithEventPublisher(eventBus),
		inventoryapp.WithLogger(log.Named("inventory")),
	)
	valuationService := inventoryapp.NewValuationService(batchRepo)

	// HTTP engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if tracerProvider.IsEnabled() {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}

	// Routes
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewInventoryHandler(consumptionService, valuationService)).
		Register(handler.NewSettingsHandler(settingsService)).
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
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("Server stopped")
}
