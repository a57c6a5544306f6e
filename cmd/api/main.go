package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hallguardian/hallguardian-api/api/swagger"
	"github.com/hallguardian/hallguardian-api/internal/handler"
	"github.com/hallguardian/hallguardian-api/internal/middleware"
	"github.com/hallguardian/hallguardian-api/internal/models"
	"github.com/hallguardian/hallguardian-api/internal/repository"
	"github.com/hallguardian/hallguardian-api/internal/service"
	"github.com/hallguardian/hallguardian-api/pkg/cache"
	"github.com/hallguardian/hallguardian-api/pkg/config"
	"github.com/hallguardian/hallguardian-api/pkg/database"
	"github.com/hallguardian/hallguardian-api/pkg/logger"
	corsmiddleware "github.com/hallguardian/hallguardian-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hallguardian/hallguardian-api/pkg/middleware/requestid"
)

// @title HallGuardian API
// @version 1.0.0
// @description Scan ingestion and presence tracking backend
// @BasePath /api
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// the limiter fails open without it
		logr.Sugar().Warnw("redis unavailable, scan rate limiting disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	eventRepo := repository.NewScanEventRepository(db)

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
		Issuer:      cfg.JWT.Issuer,
	})
	scanSvc := service.NewScanService(studentRepo, locationRepo, eventRepo, validate, logr, metricsSvc)
	presenceSvc := service.NewPresenceService(eventRepo, locationRepo, logr)
	exportSvc := service.NewExportService(eventRepo, logr, cfg.Export.MaxRows, cfg.Export.PDFTitle)

	authHandler := handler.NewAuthHandler(authSvc)
	scanHandler := handler.NewScanHandler(scanSvc)
	presenceHandler := handler.NewPresenceHandler(presenceSvc)
	exportHandler := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	staff := api.Group("")
	staff.Use(middleware.JWT(authSvc))
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher))

	scans := staff.Group("/scan")
	if cfg.Scan.RateLimitEnabled {
		scans.Use(middleware.RateLimit(redisClient, cfg.Scan.RateLimitPerMinute, cfg.Scan.RateLimitWindow))
	}
	scans.POST("/qr", scanHandler.ScanQR)
	scans.POST("/nfc", scanHandler.ScanNFC)

	staff.GET("/students/:id/current-location", presenceHandler.CurrentLocation)
	staff.GET("/locations/:id/occupants", presenceHandler.Occupants)
	staff.GET("/schools/:id/current-out", presenceHandler.CurrentOut)

	if cfg.Export.Enabled {
		admin := api.Group("")
		admin.Use(middleware.JWT(authSvc))
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		admin.GET("/schools/:id/scan-events/export", exportHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
