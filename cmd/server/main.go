package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"kenyamusic/internal/client/youtube"
	"kenyamusic/internal/config"
	cronrunner "kenyamusic/internal/cron"
	"kenyamusic/internal/db"
	"kenyamusic/internal/handler"
	"kenyamusic/internal/logger"
	gormrepository "kenyamusic/internal/repository/gorm"
	"kenyamusic/internal/service"
)

func main() {
	cfgPath := os.Getenv("KM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("KM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	videoClient, err := youtube.NewClient(ctx, cfg.YouTube)
	if err != nil {
		logger.Fatal("youtube client init failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	statsService := service.NewStatsService(store, logger)
	enrichService := service.NewEnrichService(store, cfg.Enrich, logger)
	catalogService := service.NewCatalogService(store, logger)
	discoveryService := service.NewDiscoveryService(store, videoClient, cfg.Discovery, logger)
	discoveryService.Stats = statsService
	if enrichService.Enabled() {
		discoveryService.Enrich = enrichService
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	catalogHandler := &handler.CatalogHandler{
		Catalog:       catalogService,
		Logger:        logger,
		RetentionDays: cfg.Discovery.RecencyDays,
	}
	catalogHandler.Register(engine)
	discoveryHandler := &handler.DiscoveryHandler{Service: discoveryService, Logger: logger}
	discoveryHandler.Register(engine)
	statsHandler := &handler.StatsHandler{Service: statsService}
	statsHandler.Register(engine)
	enrichHandler := &handler.EnrichHandler{Service: enrichService, Logger: logger}
	enrichHandler.Register(engine)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		_, err = cronRunner.Add(cfg.Cron.Discovery, func(ctx context.Context) {
			result, err := discoveryService.UpdateLibrary(ctx)
			if err != nil {
				logger.Warn("cron discovery failed", zap.Error(err))
				return
			}
			logger.Info("cron discovery ok",
				zap.Int("videos_found", result.VideosFound),
				zap.Int("videos_saved", result.VideosSaved),
				zap.Duration("duration", result.Duration),
			)
		})
		if err != nil {
			logger.Warn("cron register discovery failed", zap.Error(err))
		}

		_, err = cronRunner.Add(cfg.Cron.Cleanup, func(ctx context.Context) {
			removed, err := catalogService.Cleanup(ctx, cfg.Discovery.RecencyDays)
			if err != nil {
				logger.Warn("cron cleanup failed", zap.Error(err))
				return
			}
			if removed > 0 {
				logger.Info("cron cleanup ok", zap.Int64("removed", removed))
			}
		})
		if err != nil {
			logger.Warn("cron register cleanup failed", zap.Error(err))
		}
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	errCh := make(chan error, 2)

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
