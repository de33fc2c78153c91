package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/edu-signal-api/api/swagger"
	"github.com/noah-isme/edu-signal-api/internal/analytics"
	"github.com/noah-isme/edu-signal-api/internal/handler"
	internalmiddleware "github.com/noah-isme/edu-signal-api/internal/middleware"
	"github.com/noah-isme/edu-signal-api/internal/repository"
	"github.com/noah-isme/edu-signal-api/internal/service"
	"github.com/noah-isme/edu-signal-api/pkg/cache"
	"github.com/noah-isme/edu-signal-api/pkg/config"
	"github.com/noah-isme/edu-signal-api/pkg/database"
	"github.com/noah-isme/edu-signal-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/edu-signal-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/edu-signal-api/pkg/middleware/requestid"
)

// @title Edu Signal API
// @version 0.1.0
// @description Learning-signal analytics over student submission history
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cache.Enabled(cfg.Redis) {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, signal cache disabled", zap.Error(err))
		} else {
			redisClient = client
		}
	}

	metrics := service.NewMetricsService()
	history := repository.NewHistoryRepository(db, metrics)
	cacheRepo := repository.NewCacheRepository(redisClient, cfg.Redis.Namespace, logr)
	defer cacheRepo.Close() //nolint:errcheck
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Signals.CacheTTL, logr, redisClient != nil)

	engine := analytics.NewEngine(cfg.Thresholds, analytics.LexiconByName(cfg.Signals.Lexicon))
	opts := service.SignalOptions{
		Workers:      cfg.Signals.Workers,
		FetchTimeout: cfg.Signals.FetchTimeout,
		CacheTTL:     cfg.Signals.CacheTTL,
	}
	signalSvc := service.NewSignalService(history, engine, cacheSvc, metrics, logr, opts)
	performanceSvc := service.NewPerformanceService(history, engine, cacheSvc, metrics, nil, logr, opts)
	insightSvc := service.NewInsightService(history, engine, performanceSvc, nil, metrics, logr)

	insightHandler := handler.NewInsightHandler(insightSvc, nil)
	if cfg.Warmup.Enabled {
		warmupSvc := service.NewWarmupService(service.WarmupOptions{
			Workers:    cfg.Warmup.Workers,
			Retries:    cfg.Warmup.Retries,
			RetryDelay: cfg.Warmup.RetryDelay,
		}, metrics, logr, signalSvc, performanceSvc)
		warmupSvc.Start(ctx)
		defer warmupSvc.Stop()
		insightHandler = handler.NewInsightHandler(insightSvc, warmupSvc)
	}

	signalHandler := handler.NewSignalHandler(signalSvc)
	performanceHandler := handler.NewPerformanceHandler(performanceSvc)
	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"postgres": handler.PingFunc(db.PingContext),
		"redis":    cacheRepo,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	signals := api.Group("/signals", internalmiddleware.FeatureGate("signals", cfg.Signals.Enabled))
	{
		signals.GET("/students/:studentId/prediction", signalHandler.Prediction)
		signals.GET("/students/:studentId/recommendations", signalHandler.Recommendations)
		signals.GET("/students/:studentId/buckets", signalHandler.Buckets)

		signals.GET("/classes/:classId/risks", signalHandler.Risks)
		signals.GET("/classes/:classId/churn", signalHandler.Churn)
		signals.GET("/classes/:classId/clusters", signalHandler.Clusters)
		signals.GET("/classes/:classId/sentiment", signalHandler.Sentiment)
		signals.GET("/classes/:classId/performance", performanceHandler.Class)
		signals.POST("/sentiment", signalHandler.ClassifyText)

		signals.GET("/teachers/:teacherId/performance", performanceHandler.Teacher)
		signals.GET("/schools/:schoolId/classes", performanceHandler.SchoolClasses)
		signals.GET("/schools/:schoolId/teachers", performanceHandler.SchoolTeachers)

		signals.GET("/insights/:kind/:id/payload", insightHandler.Payload)
		signals.POST("/insights/:kind/:id", insightHandler.Generate)
		signals.POST("/warmup", insightHandler.Warmup)

		signals.GET("/system", metricsHandler.System)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
