package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/vit0-9/whois_api/pkg/cache"
	"github.com/vit0-9/whois_api/pkg/config"
	"github.com/vit0-9/whois_api/pkg/enrich"
	"github.com/vit0-9/whois_api/pkg/logger"
	svc "github.com/vit0-9/whois_api/pkg/service"
)

func main() {
	dotenvErr := config.LoadDotEnv()
	cfg := config.Load()

	zlog, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if dotenvErr != nil {
		zlog.Warn("could not load .env file, using environment variables from system if set", zap.Error(dotenvErr))
	}

	store, err := cache.New(cfg.CacheOptions(), zlog)
	if err != nil {
		zlog.Fatal("failed to initialize cache", zap.Error(err))
	}
	zlog.Info("cache ready", zap.String("backend", store.Backend()), zap.Duration("ttl", cfg.CacheTTL))

	geo := enrich.OpenGeoIP(cfg.MMDBCityPath, cfg.MMDBASNPath, zlog)
	service := svc.New(cfg, store, geo, zlog)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zlog.Info("shutting down server")
		geo.Close()
		_ = store.Close()
		_ = zlog.Sync()
		os.Exit(0)
	}()

	app := NewApp(cfg, service, store, zlog)
	if err := app.Start(":" + cfg.Port); err != nil {
		geo.Close()
		zlog.Fatal("failed to start server", zap.Error(err))
	}
}
