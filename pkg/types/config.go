// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "space-hub/0.1"). Per prd007-sources R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the fusion and ranking stages.
// Per prd003-fusion R2.1-R2.4.
type SearchConfig struct {
	// MaxResultsPerSource caps how many records each adapter returns
	// (default 20).
	MaxResultsPerSource int `json:"max_results_per_source" yaml:"max_results_per_source"`

	// SourceTimeout is the independent per-source deadline (default 10s).
	// A source that exceeds it is marked unavailable, not failed.
	SourceTimeout time.Duration `json:"source_timeout" yaml:"source_timeout"`

	// RequestTimeout is the overall per-request deadline (default 30s).
	RequestTimeout time.Duration `json:"request_timeout" yaml:"request_timeout"`
}

// CacheBackend selects the cache implementation.
// Per prd006-cache R5.1.
type CacheBackend string

const (
	CacheSQLite CacheBackend = "sqlite"
	CacheRedis  CacheBackend = "redis"
	CacheNone   CacheBackend = "none"
)

// CacheConfig holds settings for the cache store and analytics log.
// Per prd006-cache R5.1-R5.4.
type CacheConfig struct {
	// Backend selects sqlite, redis, or none.
	Backend CacheBackend `json:"backend" yaml:"backend"`

	// TTL is the time-to-live for cached responses (default 5m).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// Dir is the base directory for the SQLite database (contains index/).
	Dir string `json:"dir" yaml:"dir"`

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`

	// RedisPassword authenticates against the Redis server. Usually
	// supplied via the redis-password secret file rather than config.
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`

	// RedisDB selects the Redis logical database.
	RedisDB int `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
}

// SourcesConfig holds settings shared by the source adapters.
// Per prd007-sources R5.1-R5.4.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline"`

	// NASAAPIKey authenticates against api.nasa.gov. Empty falls back
	// to DEMO_KEY with its lower rate limits.
	NASAAPIKey string `json:"nasa_api_key,omitempty" yaml:"nasa_api_key,omitempty"`

	// OverheadAltitudeKM is the minimum ISS altitude in kilometers for
	// the overhead check (default 500).
	OverheadAltitudeKM float64 `json:"overhead_altitude_km" yaml:"overhead_altitude_km"`
}

// HubConfig groups all component configurations. Built once at startup
// and injected into each component at construction; there is no
// module-level configuration state.
type HubConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Sources SourcesConfig `json:"sources" yaml:"sources"`
}

// Defaults fills unset fields with their documented defaults and returns
// the config.
func (c HubConfig) Defaults() HubConfig {
	if c.Search.MaxResultsPerSource <= 0 {
		c.Search.MaxResultsPerSource = 20
	}
	if c.Search.SourceTimeout <= 0 {
		c.Search.SourceTimeout = 10 * time.Second
	}
	if c.Search.RequestTimeout <= 0 {
		c.Search.RequestTimeout = 30 * time.Second
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheSQLite
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = "data"
	}
	if c.Sources.Timeout <= 0 {
		c.Sources.Timeout = 10 * time.Second
	}
	if c.Sources.UserAgent == "" {
		c.Sources.UserAgent = "space-hub/0.1"
	}
	if c.Sources.OverheadAltitudeKM <= 0 {
		c.Sources.OverheadAltitudeKM = 500
	}
	return c
}
