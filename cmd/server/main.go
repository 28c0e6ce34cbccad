// Package main runs the CRM dashboard HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ping-crm/dashboard/config"
	"github.com/ping-crm/dashboard/internal/server"
	"github.com/ping-crm/dashboard/pkg/cache"
	"github.com/ping-crm/dashboard/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := newLogger("info")
		boot.Fatal("load config", zap.Error(err))
	}

	logger := newLogger(cfg.Log.Level)
	defer logger.Sync()

	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	tel, err := telemetry.Setup(ctx, cfg.OTel)
	if err != nil {
		logger.Fatal("telemetry", zap.Error(err))
	}

	store, closeCache, err := newCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("cache", zap.Error(err))
	}
	defer closeCache()

	router := server.NewRouter(server.Deps{Config: cfg, Logger: logger, Cache: store})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("api", cfg.API.BaseURL),
			zap.String("cache", cfg.Cache.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := tel.Shutdown(shutdownCtx); err != nil {
		logger.Error("telemetry shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Cache, func(), error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	switch cfg.Cache.Driver {
	case "memory":
		return cache.NewMemory(ttl), func() {}, nil
	case "redis":
		rdb, err := cache.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, ttl, logger)
		if err != nil {
			return nil, nil, err
		}
		return rdb, func() { _ = rdb.Close() }, nil
	default:
		return cache.Nop{}, func() {}, nil
	}
}

func newLogger(level string) *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		config.Level = lvl
	}
	logger, _ := config.Build()
	return logger
}
