package config

import "time"

// CacheConfig controls the Redis response cache applied to the floor-plan
// and availability GET endpoints.  Entries are keyed by a layout version
// that mutating endpoints bump, so the TTL is only a backstop against a
// missed invalidation.  Caching is disabled when Enabled is false or no
// Redis client could be constructed.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 5*time.Minute),
		Prefix:       getenv("CACHE_PREFIX", "tables"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1048576),
	}
}
