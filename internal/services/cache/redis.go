package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"loan-affordability-engine/internal/models"
	"loan-affordability-engine/internal/utils"
)

// Redis is a QuoteCache shared between server instances. Failures are
// logged and treated as misses so a Redis outage only costs recomputation.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at addr.
func NewRedis(addr string, ttl time.Duration) *Redis {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return &Redis{
		client: rdb,
		ttl:    ttl,
	}
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connections.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Get returns the cached quote for key.
func (r *Redis) Get(ctx context.Context, key string) (models.MaxLoanQuote, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.GetLogger().Warn("Redis get failed", utils.String("key", key), utils.Error(err))
		}
		return models.MaxLoanQuote{}, false
	}

	var quote models.MaxLoanQuote
	if err := json.Unmarshal([]byte(val), &quote); err != nil {
		utils.GetLogger().Warn("Discarding undecodable cached quote", utils.String("key", key), utils.Error(err))
		return models.MaxLoanQuote{}, false
	}
	return quote, true
}

// Set stores a quote with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, quote models.MaxLoanQuote) {
	data, err := json.Marshal(quote)
	if err != nil {
		utils.GetLogger().Warn("Failed to encode quote for cache", utils.Error(err))
		return
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		utils.GetLogger().Warn("Redis set failed", utils.String("key", key), utils.Error(err))
	}
}
