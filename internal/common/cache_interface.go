package common

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// CacheInterface defines the contract for cache implementations
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value from cache by key
	// Returns the value and true if found, nil and false otherwise
	Get(key string) (interface{}, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// GetOrSet retrieves a value from cache, or loads it using the loader function if not found.
	// Concurrent misses for the same key share one loader call.
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// CachedAs converts a value returned by a CacheInterface into T.
// The in-memory cache hands back the stored value, Redis hands back its JSON.
func CachedAs[T any](val interface{}) (T, error) {
	var out T
	switch v := val.(type) {
	case T:
		return v, nil
	case json.RawMessage:
		if err := json.Unmarshal(v, &out); err != nil {
			return out, fmt.Errorf("failed to decode cached value: %w", err)
		}
		return out, nil
	case nil:
		return out, nil
	}
	return out, fmt.Errorf("unexpected cached type %T", val)
}

// keyPattern strips the trailing id so metrics labels stay bounded.
func keyPattern(key string) string {
	return strings.TrimRight(key, "0123456789")
}
