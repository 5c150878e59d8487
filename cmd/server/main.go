// Package main provides the API server entry point for the BaseGenesis service.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/base-genesis/internal/api"
	"github.com/base-genesis/internal/config"
	"github.com/base-genesis/internal/explorer"
	"github.com/base-genesis/internal/genesis"
	"github.com/base-genesis/internal/logging"
	"github.com/base-genesis/internal/service"
	"github.com/base-genesis/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.GetGlobalLogger().Fatalf("Failed to load configuration: %v", err)
	}

	logging.InitGlobalLogger(
		logging.ParseLogLevel(cfg.Logging.Level),
		logging.ParseLogFormat(cfg.Logging.Format),
	)
	logger := logging.GetGlobalLogger()
	logger.WithFields(map[string]interface{}{
		"level":  cfg.Logging.Level,
		"format": cfg.Logging.Format,
	}).Info("BaseGenesis server starting")

	// Postgres is required: the profile store is the system of record.
	postgres, err := storage.NewPostgresDB(&cfg.Database.Postgres)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to Postgres")
	}
	defer postgres.Close()

	components := map[string]api.Pinger{
		"postgres": postgres,
	}

	// Redis and ClickHouse are enrichments: the server runs without them.
	var cacheService *storage.CacheService
	if cfg.Database.Redis.Enabled {
		redis, err := storage.NewRedisCache(&cfg.Database.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, leaderboard fallback cache disabled")
			components["redis"] = nil
		} else {
			defer redis.Close()
			cacheService = storage.NewCacheService(redis, cfg.Cache.LeaderboardTTL)
			components["redis"] = redis
		}
	}

	var eventRepo *storage.ScanEventRepository
	if cfg.Database.ClickHouse.Enabled {
		clickhouse, err := storage.NewClickHouseDB(&cfg.Database.ClickHouse)
		if err != nil {
			logger.WithError(err).Warn("ClickHouse unavailable, scan analytics disabled")
			components["clickhouse"] = nil
		} else {
			defer clickhouse.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := clickhouse.EnsureScanEventsTable(ctx); err != nil {
				logger.WithError(err).Warn("Failed to ensure scan_events table")
			}
			cancel()

			eventRepo = storage.NewScanEventRepository(clickhouse)
			components["clickhouse"] = clickhouse
		}
	}

	profileRepo := storage.NewProfileRepository(postgres)
	explorerClient := explorer.NewClient(&cfg.Explorer)
	classifier := genesis.NewClassifierFromConfig(&cfg.Genesis)

	var eventSink service.EventSink
	if eventRepo != nil {
		eventSink = eventRepo
	}
	scanService := service.NewScanService(explorerClient, classifier, profileRepo, eventSink)

	var leaderboardCache service.LeaderboardCache
	if cacheService != nil {
		leaderboardCache = cacheService
	}
	leaderboardService := service.NewLeaderboardService(profileRepo, leaderboardCache)

	server := api.NewServer(&api.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		FreeTierRPS:     cfg.RateLimit.FreeTierRPS,
		PaidTierRPS:     cfg.RateLimit.PaidTierRPS,
	}, scanService, leaderboardService, components)

	go func() {
		logger.WithFields(map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		}).Info("HTTP server listening")

		if err := server.Start(); err != nil {
			logger.WithError(err).Warn("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	if err := server.Shutdown(context.Background()); err != nil {
		logger.WithError(err).Error("Graceful shutdown failed")
	}
	logger.Info("Server stopped")
}
