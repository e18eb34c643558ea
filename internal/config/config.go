// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) to build a Config with defaults, Load to layer sources.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
	"time"
)

// Default tuning values.
const (
	defaultQueueSize       = 10_000
	defaultThrottleWindow  = 5 * time.Minute
	defaultMaxRankingLimit = 100
	workerPerCPU           = 2
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory recalculation queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of recalculation workers.
	WorkerCount int `koanf:"worker_count"`

	// ThrottleWindowSeconds is the minimum age a ranking snapshot must
	// reach before a new recomputation for its key is allowed.
	ThrottleWindowSeconds int `koanf:"throttle_window_seconds"`

	// MaxRankingLimit caps GET /rankings?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
}

// New creates a Config with defaults. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		QueueSize:             defaultQueueSize,
		WorkerCount:           runtime.NumCPU() * workerPerCPU,
		ThrottleWindowSeconds: int(defaultThrottleWindow.Seconds()),
		MaxRankingLimit:       defaultMaxRankingLimit,
	}
}

// ThrottleWindow returns the staleness throttle as a duration.
func (c *Config) ThrottleWindow() time.Duration {
	return time.Duration(c.ThrottleWindowSeconds) * time.Second
}
