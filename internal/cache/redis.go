package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/potent-zedlee/templar-archives/internal/analyzer"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Options configures the Redis connection
type Options struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// Redis stores chunk results as JSON strings with a TTL
type Redis struct {
	logger zerolog.Logger
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedis connects to Redis and verifies the connection with a PING
func NewRedis(ctx context.Context, logger zerolog.Logger, opts Options) (*Redis, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address is required")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}

	return newRedis(logger, rdb, opts), nil
}

func newRedis(logger zerolog.Logger, rdb *redis.Client, opts Options) *Redis {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{
		logger: logger.With().Str("component", "cache").Logger(),
		rdb:    rdb,
		ttl:    ttl,
		prefix: opts.Prefix,
	}
}

// Get returns a cached result. Misses and Redis errors both report false;
// the analyzer then falls back to a live request.
func (r *Redis) Get(ctx context.Context, key string) (analyzer.Result, bool) {
	data, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return analyzer.Result{}, false
	}
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return analyzer.Result{}, false
	}

	var res analyzer.Result
	if err := json.Unmarshal(data, &res); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		_ = r.rdb.Del(ctx, r.prefix+key).Err()
		return analyzer.Result{}, false
	}
	return res, true
}

// Set stores a result; write failures are logged and otherwise ignored
func (r *Redis) Set(ctx context.Context, key string, res analyzer.Result) {
	data, err := json.Marshal(res)
	if err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := r.rdb.Set(ctx, r.prefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Close closes the underlying client
func (r *Redis) Close() error {
	return r.rdb.Close()
}
