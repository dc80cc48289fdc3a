package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/hackthebois/recordscratch/database"
	"github.com/hackthebois/recordscratch/internal/api/analytics"
	"github.com/hackthebois/recordscratch/internal/api/handler"
	"github.com/hackthebois/recordscratch/internal/api/middleware"
	"github.com/hackthebois/recordscratch/internal/api/repository"
	"github.com/hackthebois/recordscratch/internal/api/service"
	"github.com/hackthebois/recordscratch/internal/config"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("could not get database instance: %v", err)
	}
	defer sqlDB.Close()

	// Redis backs the chart cache and the analytics queue. The API works
	// without it, just slower and without events.
	events, err := analytics.NewPublisher(cfg.RedisAddr, cfg.RedisPassword, logger)
	if err != nil {
		logger.Warn("analytics disabled", "error", err)
		events = nil
	}
	defer events.Close()

	var cache *redis.Client
	if events != nil {
		cache = redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			Password:     cfg.RedisPassword,
			DB:           0,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		defer cache.Close()
	}

	// Repositories
	ratingRepo := repository.NewRatingRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	followRepo := repository.NewFollowRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// Services
	ratingService := service.NewRatingService(ratingRepo, followRepo, events)
	chartService := service.NewChartService(ratingRepo, profileRepo, cache, cfg.ChartCacheTTL, logger)
	feedService := service.NewFeedService(ratingRepo, followRepo, events)
	profileService := service.NewProfileService(profileRepo, ratingRepo, followRepo, likeRepo, events)

	// Handlers
	ratingHandler := handler.NewRatingHandler(ratingService, chartService, feedService)
	profileHandler := handler.NewProfileHandler(profileService, ratingService)

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	ratingHandler.RegisterRoutes(api, cfg.JWTSecret)
	profileHandler.RegisterRoutes(api, cfg.JWTSecret)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		logger.Info("server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received, stopping server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
