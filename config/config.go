package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Filter    FilterConfig
	Batch     BatchConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration // default: 10s
}

// FilterConfig sets the server-wide defaults for content filtering.
// Per-request values override these.
type FilterConfig struct {
	// DefaultMode is the filter mode used when a request names none.
	// One of "raw", "readability", "pruning", "bm25", "auto".
	DefaultMode string // default: "readability"

	// PruneThreshold is the default pruning score threshold.
	PruneThreshold float64 // default: 0.48

	// ThresholdMode is "fixed" or "dynamic".
	ThresholdMode string // default: "fixed"

	// BM25Threshold is the default bm25 score threshold.
	BM25Threshold float64 // default: 1.0

	// MinWords is the default word floor for pruning and bm25 chunks.
	MinWords int // default: 0 (filters use their own floors)

	// Stemming toggles Porter stemming for bm25 by default.
	Stemming bool // default: true
}

// BatchConfig controls batch distillation.
type BatchConfig struct {
	// MaxConcurrency caps how many documents distill in parallel per batch.
	MaxConcurrency int // default: 5

	// MaxDocuments caps the batch size accepted by the API.
	MaxDocuments int // default: 100
}

// CacheConfig controls the distill response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys (for MVP; replace with DB later).
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            envOr("DISTILL_HOST", "0.0.0.0"),
			Port:            envIntOr("DISTILL_PORT", 8080),
			Mode:            envOr("DISTILL_MODE", "release"),
			ShutdownTimeout: envDurationOr("DISTILL_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Filter: FilterConfig{
			DefaultMode:    envOr("DISTILL_FILTER_MODE", "readability"),
			PruneThreshold: envFloatOr("DISTILL_PRUNE_THRESHOLD", 0.48),
			ThresholdMode:  envOr("DISTILL_THRESHOLD_MODE", "fixed"),
			BM25Threshold:  envFloatOr("DISTILL_BM25_THRESHOLD", 1.0),
			MinWords:       envIntOr("DISTILL_MIN_WORDS", 0),
			Stemming:       envBoolOr("DISTILL_STEMMING", true),
		},
		Batch: BatchConfig{
			MaxConcurrency: envIntOr("DISTILL_BATCH_CONCURRENCY", 5),
			MaxDocuments:   envIntOr("DISTILL_BATCH_MAX_DOCS", 100),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("DISTILL_AUTH_ENABLED", true),
			APIKeys: envSliceOr("DISTILL_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("DISTILL_RATE_RPS", 5.0),
			Burst:             envIntOr("DISTILL_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("DISTILL_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("DISTILL_LOG_LEVEL", "info"),
			Format: envOr("DISTILL_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
