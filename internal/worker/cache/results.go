package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/linkflow-ai/mathnodes/internal/pkg/circuitbreaker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("evaluation not found")

// ResultCache caches formula results and async evaluation records. Calls go
// through a circuit breaker so a redis outage degrades to cache misses.
type ResultCache struct {
	redis     *redis.Client
	breaker   *circuitbreaker.CircuitBreaker
	ttl       time.Duration
	recordTTL time.Duration
}

// ResultCacheConfig configures the result cache
type ResultCacheConfig struct {
	TTL       time.Duration
	RecordTTL time.Duration
}

// NewResultCache creates a new result cache
func NewResultCache(redis *redis.Client, cfg ResultCacheConfig) *ResultCache {
	if cfg.TTL == 0 {
		cfg.TTL = 1 * time.Hour
	}
	if cfg.RecordTTL == 0 {
		cfg.RecordTTL = 24 * time.Hour
	}

	return &ResultCache{
		redis: redis,
		breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:             "result-cache",
			FailureThreshold: 5,
			Timeout:          15 * time.Second,
			OnStateChange: func(name string, from, to circuitbreaker.State) {
				log.Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("Circuit breaker state changed")
			},
		}),
		ttl:       cfg.TTL,
		recordTTL: cfg.RecordTTL,
	}
}

// Key generates a cache key for a formula result
func (c *ResultCache) Key(formula string, vars map[string]float64) string {
	return ResultKey(formula, vars)
}

// Get retrieves a cached result
func (c *ResultCache) Get(ctx context.Context, key string) (float64, bool) {
	var data []byte
	err := c.breaker.Do(func() error {
		var err error
		data, err = c.redis.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			data = nil
			return nil
		}
		return err
	})
	if err != nil || data == nil {
		return 0, false
	}

	var cached CachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return 0, false
	}
	return cached.Result, true
}

// Set stores a result in cache
func (c *ResultCache) Set(ctx context.Context, key string, result float64) error {
	data, err := json.Marshal(CachedResult{Result: result, CachedAt: time.Now()})
	if err != nil {
		return err
	}

	return c.breaker.Do(func() error {
		return c.redis.Set(ctx, key, data, c.ttl).Err()
	})
}

// Delete removes a cached result
func (c *ResultCache) Delete(ctx context.Context, key string) error {
	return c.breaker.Do(func() error {
		return c.redis.Del(ctx, key).Err()
	})
}

// SaveEvaluation stores an async evaluation record
func (c *ResultCache) SaveEvaluation(ctx context.Context, eval *Evaluation) error {
	data, err := json.Marshal(eval)
	if err != nil {
		return err
	}

	return c.breaker.Do(func() error {
		return c.redis.Set(ctx, EvaluationKey(eval.ID), data, c.recordTTL).Err()
	})
}

// GetEvaluation loads an async evaluation record
func (c *ResultCache) GetEvaluation(ctx context.Context, id uuid.UUID) (*Evaluation, error) {
	var data []byte
	err := c.breaker.Do(func() error {
		var err error
		data, err = c.redis.Get(ctx, EvaluationKey(id)).Bytes()
		if errors.Is(err, redis.Nil) {
			data = nil
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation: %w", err)
	}
	if data == nil {
		return nil, ErrNotFound
	}

	var eval Evaluation
	if err := json.Unmarshal(data, &eval); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation: %w", err)
	}
	return &eval, nil
}

// CachedResult wraps a cached result with metadata
type CachedResult struct {
	Result   float64   `json:"result"`
	CachedAt time.Time `json:"cached_at"`
}

// ResultKey is the redis key of a formula result. Bindings that do not change
// the hash input share an entry, so callers must pass only the bindings used.
func ResultKey(formula string, vars map[string]float64) string {
	return fmt.Sprintf("formula:result:%s", HashInput(formula, vars))
}

// EvaluationKey is the redis key of an async evaluation record
func EvaluationKey(id uuid.UUID) string {
	return fmt.Sprintf("formula:evaluation:%s", id)
}

// HashInput creates a hash of a formula and its bindings for cache keys.
// encoding/json writes map keys sorted, so equal inputs hash equally.
func HashInput(formula string, vars map[string]float64) string {
	data, _ := json.Marshal(struct {
		Formula string             `json:"formula"`
		Vars    map[string]float64 `json:"vars"`
	}{formula, vars})
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
