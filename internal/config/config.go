// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory fact-ingestion queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of ingestion workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the match-id deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// AnchorThreshold is the number of appearances that anchor a player
	// to a team within a phase.
	AnchorThreshold int `koanf:"anchor_threshold"`

	// MaxForeign caps foreign players per lineup.
	MaxForeign int `koanf:"max_foreign"`

	// MaxFemale and MinFemale bound female players per lineup.
	// Negative values leave the bound unconfigured.
	MaxFemale int `koanf:"max_female"`
	MinFemale int `koanf:"min_female"`

	// RosterSize is the nominal number of slots in a lineup.
	RosterSize int `koanf:"roster_size"`

	// MaxPoolLimit caps GET available-players responses.
	MaxPoolLimit int `koanf:"max_pool_limit"`
}

// New creates a Config with club defaults. The quota defaults mirror the
// common FFTT departmental configuration: one foreign player, one female
// player, four slots.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		QueueSize:       10_000,
		WorkerCount:     4,
		DedupeSize:      100_000,
		AnchorThreshold: 2,
		MaxForeign:      1,
		MaxFemale:       1,
		MinFemale:       -1,
		RosterSize:      4,
		MaxPoolLimit:    200,
	}
}
