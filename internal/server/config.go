package server

import "time"

// Config holds configuration for the broadcast server.
type Config struct {
	// BroadcastPeriod is how often each client receives a snapshot.
	BroadcastPeriod time.Duration
	// CacheMaxAge is how old a cached snapshot may be before the provider
	// is asked for a fresh one.
	CacheMaxAge time.Duration
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		BroadcastPeriod: 10 * time.Second,
		CacheMaxAge:     20 * time.Second,
	}
}
