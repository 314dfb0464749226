package database

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisOptions configures the dashboard cache client. Redis is never the
// source of truth, so commands time out quickly and callers fall back to
// Postgres instead of waiting.
type RedisOptions struct {
	URL      string
	PoolSize int
	Timeout  time.Duration
}

const (
	defaultRedisPoolSize = 10
	defaultRedisTimeout  = 500 * time.Millisecond
)

// NewRedis connects the cache client. It returns nil, nil when no URL is
// configured and the service runs uncached.
func NewRedis(opts RedisOptions) (*redis.Client, error) {
	if opts.URL == "" {
		log.Warn().Msg("REDIS_URL not set, dashboard stats are served uncached")
		return nil, nil
	}

	opt, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}
	opt.PoolSize = opts.PoolSize
	if opt.PoolSize <= 0 {
		opt.PoolSize = defaultRedisPoolSize
	}
	opt.MinIdleConns = 1
	opt.DialTimeout = 2 * timeout
	opt.ReadTimeout = timeout
	opt.WriteTimeout = timeout
	opt.PoolTimeout = 2 * timeout

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), opt.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Int("pool_size", opt.PoolSize).
		Dur("timeout", timeout).
		Msg("Dashboard cache connected to Redis")
	return client, nil
}

// CloseRedis closes the cache client if there is one.
func CloseRedis(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing Redis connection")
		return
	}
	log.Info().Msg("Redis connection closed")
}
