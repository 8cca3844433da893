// Package main is the application entrypoint.
package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/config"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/common/metrics"
	adminHandler "github.com/alexlitwinski/realiza-reservas-sub000/internal/handler/admin"
	publicHandler "github.com/alexlitwinski/realiza-reservas-sub000/internal/handler/public"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/middleware"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/repository"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/scheduler"
	catalogService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/catalog"
	"github.com/alexlitwinski/realiza-reservas-sub000/internal/service/notification"
	reservationService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/reservation"
	scheduleService "github.com/alexlitwinski/realiza-reservas-sub000/internal/service/schedule"
	"github.com/alexlitwinski/realiza-reservas-sub000/pkg/brevo"
)

// setupRouter wires repositories, services and handlers, mounts the
// routes and returns the background scheduler ready to start.
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
) *scheduler.Scheduler {
	// repositories
	areaRepo := repository.NewAreaRepository(db)
	saloonRepo := repository.NewSaloonRepository(db)
	tableRepo := repository.NewTableRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	// external clients
	brevoClient := brevo.NewClient(&brevo.Config{
		APIKey:  cfg.Brevo.APIKey,
		BaseURL: cfg.Brevo.BaseURL,
		Timeout: cfg.Brevo.Timeout(),
	})
	dispatcher := notification.NewDispatcher(brevoClient, &cfg.Brevo, cfg.Reservation.PortalBaseURL)

	// services
	areaSvc := catalogService.NewAreaService(areaRepo)
	saloonSvc := catalogService.NewSaloonService(saloonRepo, areaRepo)
	tableSvc := catalogService.NewTableService(tableRepo, saloonRepo)
	availabilitySvc := scheduleService.NewAvailabilityService(availabilityRepo, tableRepo)
	blockSvc := scheduleService.NewBlockService(blockRepo, tableRepo, saloonRepo)
	reservationSvc := reservationService.NewService(
		db, reservationRepo, tableRepo, availabilitySvc, blockSvc, dispatcher, &cfg.Reservation)

	// handlers
	adminH := adminHandler.NewHandler(areaSvc, saloonSvc, tableSvc, availabilitySvc, blockSvc, reservationSvc)
	publicH := publicHandler.NewHandler(areaSvc, saloonSvc, reservationSvc)

	// global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	r.Use(middleware.CORS(&middleware.CORSConfig{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))
	r.Use(middleware.AccessLog(logger))
	if cfg.Metrics.Enabled {
		r.Use(metrics.GetMetrics().Middleware())
	}

	// health checks
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, metrics.Handler())
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		admin := v1.Group("/admin")
		adminH.RegisterRoutes(admin)

		public := v1.Group("/public")
		if cfg.RateLimit.Enabled {
			public.Use(middleware.IPRateLimit(
				redisClient,
				cfg.RateLimit.Limit,
				time.Duration(cfg.RateLimit.Window)*time.Second,
			))
		}
		publicH.RegisterRoutes(public)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"code":    404,
			"message": "route not found",
		})
	})

	// background sweeps
	taskHandler := scheduler.NewTaskHandler(db, reservationRepo, dispatcher, reservationSvc, &cfg.Reservation)
	sched := scheduler.NewScheduler()
	scheduler.SetupTasks(sched, taskHandler)

	return sched
}
