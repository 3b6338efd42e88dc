package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStore implements RateLimitStore on Redis so multiple API
// instances share one fixed window per key. Counters are created with INCR
// and expire with the window.
type RedisRateLimitStore struct {
	client  *redis.Client
	logger  *slog.Logger
	metrics *Metrics
}

// NewRedisRateLimitStore creates a Redis-backed rate limit store.
func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, logger: slog.Default()}
}

// WithLogger sets the logger used for fail-open warnings.
func (s *RedisRateLimitStore) WithLogger(logger *slog.Logger) *RedisRateLimitStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithMetrics sets the metrics used to count Redis fail-open events.
func (s *RedisRateLimitStore) WithMetrics(metrics *Metrics) *RedisRateLimitStore {
	s.metrics = metrics
	return s
}

// Allow implements RateLimitStore. On Redis errors it fails open and allows
// the request; dropping traffic because the limiter is down is worse than
// briefly not limiting it.
func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, int, int) {
	redisKey := "ratelimit:" + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		s.failOpen(err)
		return true, config.RequestsPerWindow, 0
	}

	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, config.WindowDuration).Err(); err != nil {
			s.logger.Warn("failed to set rate limit window expiry", "key", redisKey, "error", err)
		}
	}

	if count <= int64(config.RequestsPerWindow) {
		return true, config.RequestsPerWindow - int(count), 0
	}

	ttl, err := s.client.TTL(ctx, redisKey).Result()
	if err != nil || ttl <= 0 {
		return false, 0, int(config.WindowDuration.Seconds())
	}
	retryAfter := int(ttl.Round(time.Second).Seconds())
	if retryAfter <= 0 {
		retryAfter = 1
	}
	return false, 0, retryAfter
}

func (s *RedisRateLimitStore) failOpen(err error) {
	s.logger.Warn("rate limit store unavailable, allowing request", "error", err)
	if s.metrics != nil {
		s.metrics.IncRateLimitRedisErrors()
	}
}
