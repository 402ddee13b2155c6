package main

import (
	"fmt"
	"log"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campushub/event-report-api/api/swagger"
	"github.com/campushub/event-report-api/internal/handler"
	"github.com/campushub/event-report-api/internal/middleware"
	"github.com/campushub/event-report-api/internal/models"
	"github.com/campushub/event-report-api/internal/repository"
	"github.com/campushub/event-report-api/internal/service"
	"github.com/campushub/event-report-api/pkg/cache"
	"github.com/campushub/event-report-api/pkg/config"
	"github.com/campushub/event-report-api/pkg/database"
	"github.com/campushub/event-report-api/pkg/logger"
	corsmiddleware "github.com/campushub/event-report-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campushub/event-report-api/pkg/middleware/requestid"
	"github.com/campushub/event-report-api/pkg/render"
	"github.com/campushub/event-report-api/pkg/storage"
)

// @title Campus Hub Event Report API
// @version 1.0.0
// @description Event financial reconciliation and report distribution service
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("database connection failed", "error", err)
	}
	defer db.Close() //nolint:errcheck

	// Redis is optional: without it participation summaries are computed on
	// every request.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, participation caching disabled", "error", err)
		redisClient = nil
	}

	renderer, err := render.Select(cfg.Reports.RenderBackend, cfg.Reports.CurrencyPrefix)
	if err != nil {
		logr.Sugar().Warnw("render backend unavailable, report rendering disabled", "backend", cfg.Reports.RenderBackend, "error", err)
		renderer = nil
	}

	reportStorage, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("report storage init failed", "error", err)
	}
	signer := storage.NewDownloadSigner(cfg.Reports.DownloadSecret, cfg.Reports.DownloadTTL)

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	eventRepo := repository.NewEventRepository(db)
	costRepo := repository.NewCostRepository(db)
	participationRepo := repository.NewParticipationRepository(db)
	reportRepo := repository.NewReportRepository(db)
	sentRepo := repository.NewSentReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	authSvc := service.NewAuthService(cfg.JWT)
	ledger := service.NewCostLedger(costRepo, nil, logr)
	participationSvc := service.NewParticipationService(participationRepo, cacheRepo, metricsSvc, logr, service.ParticipationConfig{
		CacheEnabled: cfg.Reports.ParticipationCaching && redisClient != nil,
		CacheTTL:     cfg.Reports.ParticipationTTL,
	})
	reportSvc := service.NewReportService(eventRepo, reportRepo, ledger, participationSvc, renderer, metricsSvc, logr)
	distributionSvc := service.NewDistributionService(reportSvc, reportStorage, sentRepo, signer, metricsSvc, logr,
		path.Join(cfg.APIPrefix, "reports", "sent", "download"))

	reportHandler := handler.NewReportHandler(reportSvc, distributionSvc)
	participationHandler := handler.NewParticipationHandler(reportSvc, participationSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if metricsSvc != nil {
		r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	// Signed-token downloads authenticate via the token itself, not a JWT.
	api.GET("/reports/sent/download/:token", reportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))

	organizer := authed.Group("")
	organizer.Use(middleware.RequireRoles(models.RoleOrganizer, models.RoleAdmin))
	organizer.POST("/reports", reportHandler.Save)
	organizer.GET("/reports/sent", reportHandler.ListSent)
	organizer.GET("/reports/:eventId", reportHandler.Get)
	organizer.POST("/reports/render", reportHandler.Render)
	organizer.POST("/reports/send", reportHandler.Send)
	organizer.GET("/events/:id/participation", participationHandler.Summary)

	authed.POST("/reports/sent/:id/view", reportHandler.MarkViewed)
	authed.POST("/events/:id/check-in", participationHandler.CheckIn)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "render_backend", cfg.Reports.RenderBackend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
