package stats

import "time"

// Config holds configuration for the completion statistics engine.
type Config struct {
	// CacheTTLSeconds is how long a computed set statistic is served from cache.
	// Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"30"`
}

// TTL returns the cache time-to-live.
func (c Config) TTL() time.Duration {
	if c.CacheTTLSeconds < 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
