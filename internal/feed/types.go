package feed

import (
	"math/rand"
	"time"

	"github.com/tickwatch/tickwatch/pkg/models"
)

// Mode identifies which data source is currently authoritative.
type Mode int

const (
	// ModeConnecting is the initial state while the live dial is in flight.
	ModeConnecting Mode = iota
	// ModeLive means the websocket feed is connected and authoritative.
	ModeLive
	// ModeMock means the synthetic generator is authoritative. Once entered
	// after a live failure, the session never returns to live.
	ModeMock
)

func (m Mode) String() string {
	switch m {
	case ModeLive:
		return "live"
	case ModeMock:
		return "mock"
	default:
		return "connecting"
	}
}

// Event is one item on the manager's consolidated stream: the authoritative
// mode at emission time plus zero or more price records to apply. Records,
// when present, form one consistent batch that must be applied to the store
// in full before rendering.
type Event struct {
	Mode    Mode
	Records []models.PriceRecord
}

// LiveSource is the dialing side of the live feed, abstracted so the manager
// can be driven deterministically in tests.
type LiveSource interface {
	// Start begins dialing and reading. It must not block.
	Start()
	// Opened is closed once the connection is established.
	Opened() <-chan struct{}
	// Batches delivers parsed price_update payloads.
	Batches() <-chan []models.PriceRecord
	// Done delivers the terminal dial/transport error, exactly once.
	Done() <-chan error
	// Close tears the connection down.
	Close()
}

// Clock abstracts time for deterministic testing.
type Clock interface {
	Now() time.Time
}

// Rand abstracts randomness for deterministic testing.
type Rand interface {
	Float64() float64
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type RealRand struct{ *rand.Rand }

func (r RealRand) Float64() float64 { return r.Rand.Float64() }
