package main

import (
	"context"

	"github.com/linkflow-ai/mathnodes/internal/api"
	"github.com/linkflow-ai/mathnodes/internal/api/handlers"
	"github.com/linkflow-ai/mathnodes/internal/domain/repositories"
	"github.com/linkflow-ai/mathnodes/internal/domain/services"
	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/linkflow-ai/mathnodes/internal/pkg/database"
	"github.com/linkflow-ai/mathnodes/internal/pkg/logger"
	"github.com/linkflow-ai/mathnodes/internal/pkg/queue"
	pkgredis "github.com/linkflow-ai/mathnodes/internal/pkg/redis"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"github.com/rs/zerolog/log"

	_ "github.com/linkflow-ai/mathnodes/internal/worker/nodes/maths"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	logger.Init(cfg.App.Environment, cfg.App.Debug)

	log.Info().
		Str("app", cfg.App.Name).
		Str("environment", cfg.App.Environment).
		Msg("Starting API server")

	formulaSvc := services.NewFormulaService()
	checks := make(map[string]handlers.HealthCheck)

	// Saved formula library
	if cfg.Database.Enabled {
		db, err := database.NewGormDB(&cfg.Database, cfg.App.Debug)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		if cfg.Database.Seed {
			if err := database.SeedFormulas(db); err != nil {
				log.Fatal().Err(err).Msg("Failed to seed formulas")
			}
		}

		formulaSvc.SetRepository(repositories.NewFormulaRepository(db))
		checks["database"] = func(ctx context.Context) error {
			return database.Ping(ctx, db)
		}
	}

	// Result cache and async evaluation
	if cfg.Redis.Enabled {
		redisClient, err := pkgredis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()

		queueClient := queue.NewClient(&cfg.Redis)
		defer queueClient.Close()

		formulaSvc.SetCache(cache.NewResultCache(redisClient.Client, cache.ResultCacheConfig{
			TTL:       cfg.Cache.TTL,
			RecordTTL: cfg.Cache.RecordTTL,
		}))
		formulaSvc.SetEnqueuer(queueClient)
		checks["redis"] = redisClient.Check
	}

	// Create server
	server := api.NewServer(cfg, &api.Services{Formula: formulaSvc}, checks)

	// Start server
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
