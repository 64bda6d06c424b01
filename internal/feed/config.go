package feed

import "time"

// Config holds configuration for the feed manager.
type Config struct {
	// URL is the live feed websocket endpoint.
	URL string
	// Symbols is the ordered tracked-symbol list.
	Symbols []string
	// StartupTimeout is how long to wait for the live connection before
	// forcing the mock source, measured from Run.
	StartupTimeout time.Duration
	// MockPeriod is the mock generator's tick interval.
	MockPeriod time.Duration
	// EventBuffer is the size of the consolidated events channel.
	EventBuffer int
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		URL:            "ws://localhost:8000/ws/prices",
		Symbols:        []string{"AAPL", "TSLA", "NVDA", "MSFT"},
		StartupTimeout: 2 * time.Second,
		MockPeriod:     2500 * time.Millisecond,
		EventBuffer:    64,
	}
}
