package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/linkflow-ai/mathnodes/internal/pkg/config"
	"github.com/linkflow-ai/mathnodes/internal/pkg/logger"
	pkgredis "github.com/linkflow-ai/mathnodes/internal/pkg/redis"
	"github.com/linkflow-ai/mathnodes/internal/worker"
	"github.com/linkflow-ai/mathnodes/internal/worker/cache"
	"github.com/linkflow-ai/mathnodes/internal/worker/events"
	"github.com/rs/zerolog/log"
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
		Str("service", "worker").
		Msg("Starting worker service")

	// The worker always needs redis, whatever redis.enabled says for the API.
	redisClient, err := pkgredis.NewClient(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	store := cache.NewResultCache(redisClient.Client, cache.ResultCacheConfig{
		TTL:       cfg.Cache.TTL,
		RecordTTL: cfg.Cache.RecordTTL,
	})

	w := worker.New(cfg, store)
	w.SetEvents(events.NewPublisher(redisClient.Client))

	// Start does not block; the queue server runs until Shutdown.
	if err := w.Start(); err != nil {
		log.Fatal().Err(err).Msg("Worker error")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down worker...")
	w.Shutdown()
	log.Info().Msg("Worker stopped")
}
