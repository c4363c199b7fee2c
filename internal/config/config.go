// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory evaluation queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of discrepancy workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the prediction-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// WindowSize bounds the per-endpoint test record window.
	WindowSize int `koanf:"window_size"`

	// ShardCount configures the number of shards in the profile store.
	ShardCount int `koanf:"shard_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// JournalPath points at the sqlite file for reputation snapshots.
	// Empty keeps the journal in memory.
	JournalPath string `koanf:"journal_path"`

	// Trust score composite weights. Must sum to 1.
	UptimeWeight   float64 `koanf:"uptime_weight"`
	SpeedWeight    float64 `koanf:"speed_weight"`
	AccuracyWeight float64 `koanf:"accuracy_weight"`
	AgeWeight      float64 `koanf:"age_weight"`

	// ReputationDeltas maps accuracy bands to trust score changes.
	ReputationDeltas map[string]float64 `koanf:"reputation_deltas"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		QueueSize:           100_000,
		WorkerCount:         runtime.NumCPU() * 4,
		DedupeSize:          50_000,
		WindowSize:          100,
		ShardCount:          8,
		MaxLeaderboardLimit: 100,
		UptimeWeight:        0.35,
		SpeedWeight:         0.25,
		AccuracyWeight:      0.30,
		AgeWeight:           0.10,
		ReputationDeltas: map[string]float64{
			"excellent": 10,
			"good":      5,
			"fair":      -5,
			"poor":      -15,
		},
	}
}
