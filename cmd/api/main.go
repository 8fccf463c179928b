package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"dancestudio/internal/config"
	"dancestudio/internal/database"
	"dancestudio/internal/events"
	"dancestudio/internal/middleware"
	jwtsvc "dancestudio/internal/pkg/jwt"
	"dancestudio/internal/pkg/logger"
	"dancestudio/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat, "dancestudio-api")
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	var pub events.Publisher
	if cfg.RabbitMQURL != "" {
		pub = events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
		zl.Info("publishing events", zap.String("queue", cfg.EventsQueue))
	}

	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()
	}

	srv := server.New(server.Options{
		DB:        db,
		JWT:       jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL),
		Log:       zl,
		Publisher: pub,
		Redis:     rdb,
		RateLimit: middleware.RateLimitConfig{
			Requests: cfg.RateLimitLimit,
			Window:   cfg.RateLimitWindow,
			Prefix:   "auth",
		},
		Origins:    cfg.CORSAllowedOrigins,
		BcryptCost: cfg.BcryptCost,
	})
	defer srv.Hub.Close()

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zl.Info("listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
