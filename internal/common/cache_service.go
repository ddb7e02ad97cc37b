package common

import (
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"yrhacks/hackbot/internal/metrics"
)

// CacheService is the in-memory cache used when Redis is not configured.
type CacheService struct {
	cache   *cache.Cache
	group   singleflight.Group
	metrics *metrics.MetricsRegistry
}

// Ensure CacheService implements CacheInterface
var _ CacheInterface = (*CacheService)(nil)

// NewCacheService builds the cache. m may be nil.
func NewCacheService(defaultExpiration, cleanUpInterval time.Duration, m *metrics.MetricsRegistry) *CacheService {
	c := cache.New(defaultExpiration, cleanUpInterval)
	return &CacheService{cache: c, metrics: m}
}

func (cs *CacheService) Set(key string, value interface{}, duration time.Duration) {
	cs.cache.Set(key, value, duration)
}

func (cs *CacheService) Get(key string) (interface{}, bool) {
	return cs.cache.Get(key)
}

func (cs *CacheService) Delete(key string) {
	cs.cache.Delete(key)
}

func (cs *CacheService) GetOrSet(
	key string,
	duration time.Duration,
	loader func() (any, error)) (interface{}, error) {
	if val, found := cs.Get(key); found {
		cs.record(key, true)
		return val, nil
	}
	cs.record(key, false)

	val, err, _ := cs.group.Do(key, func() (interface{}, error) {
		if val, found := cs.Get(key); found {
			return val, nil
		}
		val, err := loader()
		if err != nil {
			return nil, err
		}
		cs.Set(key, val, duration)
		return val, nil
	})
	return val, err
}

func (cs *CacheService) record(key string, hit bool) {
	if cs.metrics == nil {
		return
	}
	if hit {
		cs.metrics.CacheHitsTotal.WithLabelValues(keyPattern(key)).Inc()
	} else {
		cs.metrics.CacheMissesTotal.WithLabelValues(keyPattern(key)).Inc()
	}
}

// Close closes the cache (no-op for in-memory cache)
func (cs *CacheService) Close() error {
	return nil
}
