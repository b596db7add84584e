package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"carpool/internal/config"
	"carpool/internal/handlers"
	"carpool/internal/middleware"
	"carpool/internal/queue"
	"carpool/internal/repositories/mongodb"
	"carpool/internal/services"
	"carpool/pkg/cache"
	"carpool/pkg/database"
	"carpool/pkg/logger"
	"carpool/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}

	// Database
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to mongodb")
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		log.WithError(err).Fatal("failed to run migrations")
	}

	// Redis cache is optional; services degrade to direct reads
	var cacheService services.CacheService
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})
		if err != nil {
			log.WithError(err).Warn("redis unavailable, caching disabled")
		} else {
			defer redisCache.Close()
			cacheService = redisCache
		}
	}

	// Event queue is optional; notifications still land in the inbox
	var publisher services.EventPublisher
	if cfg.Queue.Enabled {
		queuePublisher, err := queue.NewPublisher(cfg.Queue.URL)
		if err != nil {
			log.WithError(err).Warn("rabbitmq unavailable, event publishing disabled")
		} else {
			defer queuePublisher.Close()
			publisher = queuePublisher
		}
	}

	// Repositories
	rideRepo := mongodb.NewRideRepository(db.Database)
	requestRepo := mongodb.NewRideRequestRepository(db.Database)
	notificationRepo := mongodb.NewNotificationRepository(db.Database, cacheService)
	profileRepo := mongodb.NewProfileRepository(db.Database)
	txRunner := mongodb.NewTxRunner(db.Client)

	// Services
	notificationService := services.NewNotificationService(notificationRepo, publisher, log)
	profileService := services.NewProfileService(profileRepo, cacheService, log)
	rideService := services.NewRideService(rideRepo, requestRepo, notificationService, txRunner, log)
	requestService := services.NewRequestService(rideRepo, requestRepo, notificationService, profileService, txRunner, log)

	// Handlers
	rideHandler := handlers.NewRideHandler(rideService)
	requestHandler := handlers.NewRequestHandler(requestService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	profileHandler := handlers.NewProfileHandler(profileService)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(log))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.WithError(err).Fatal("invalid trusted proxies")
		}
	}

	v1 := router.Group("/api/v1")
	{
		routes.SetupRideRoutes(v1, rideHandler, cfg.Security.JWTSecret)
		routes.SetupRequestRoutes(v1, requestHandler, cfg.Security.JWTSecret)
		routes.SetupNotificationRoutes(v1, notificationHandler, cfg.Security.JWTSecret)
		routes.SetupProfileRoutes(v1, profileHandler, cfg.Security.JWTSecret)
	}

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
}
