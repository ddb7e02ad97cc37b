package common

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"yrhacks/hackbot/internal/logging"
	"yrhacks/hackbot/internal/metrics"
)

const redisKeyPrefix = "hackbot:"

// RedisCacheService implements CacheInterface using Redis.
// Values are stored as JSON and come back from Get as json.RawMessage.
type RedisCacheService struct {
	client  *redis.Client
	ctx     context.Context
	group   singleflight.Group
	metrics *metrics.MetricsRegistry
}

// Ensure RedisCacheService implements CacheInterface
var _ CacheInterface = (*RedisCacheService)(nil)

func NewRedisCacheService(client *redis.Client, m *metrics.MetricsRegistry) *RedisCacheService {
	return &RedisCacheService{
		client:  client,
		ctx:     context.Background(),
		metrics: m,
	}
}

// Set stores a value in Redis with the given key and duration
func (r *RedisCacheService) Set(key string, value interface{}, duration time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logging.Warn("Redis cache: failed to marshal value", "key", key, "error", err)
		return
	}

	if err := r.client.Set(r.ctx, redisKeyPrefix+key, data, duration).Err(); err != nil {
		logging.Warn("Redis cache: failed to set key", "key", key, "error", err)
	}
}

// Get retrieves a value from Redis by key
func (r *RedisCacheService) Get(key string) (interface{}, bool) {
	data, err := r.client.Get(r.ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logging.Warn("Redis cache: failed to get key", "key", key, "error", err)
		return nil, false
	}

	return json.RawMessage(data), true
}

// Delete removes a value from Redis by key
func (r *RedisCacheService) Delete(key string) {
	if err := r.client.Del(r.ctx, redisKeyPrefix+key).Err(); err != nil {
		logging.Warn("Redis cache: failed to delete key", "key", key, "error", err)
	}
}

// GetOrSet retrieves a value from cache, or loads it using the loader function if not found
func (r *RedisCacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error),
) (interface{}, error) {
	if val, found := r.Get(key); found {
		r.record(key, true)
		return val, nil
	}
	r.record(key, false)

	val, err, _ := r.group.Do(key, func() (interface{}, error) {
		val, err := loader()
		if err != nil {
			return nil, err
		}
		r.Set(key, val, duration)
		return val, nil
	})
	return val, err
}

func (r *RedisCacheService) record(key string, hit bool) {
	if r.metrics == nil {
		return
	}
	if hit {
		r.metrics.CacheHitsTotal.WithLabelValues(keyPattern(key)).Inc()
	} else {
		r.metrics.CacheMissesTotal.WithLabelValues(keyPattern(key)).Inc()
	}
}

// Close closes the Redis connection
func (r *RedisCacheService) Close() error {
	return r.client.Close()
}
