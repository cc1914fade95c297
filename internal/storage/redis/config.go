package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// ChallengeTTL bounds how long an unanswered challenge stays resident.
	// It should comfortably exceed the broker's freshness window.
	ChallengeTTL time.Duration

	// SessionTTL applies to active sessions; FinishedSessionTTL replaces it
	// once a session finalizes, so completed games age out.
	SessionTTL         time.Duration
	FinishedSessionTTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:                "redis://localhost:6379",
		PoolSize:           10,
		MinIdleConns:       2,
		ChallengeTTL:       10 * time.Minute,
		SessionTTL:         24 * time.Hour,
		FinishedSessionTTL: time.Hour,
	}
}
