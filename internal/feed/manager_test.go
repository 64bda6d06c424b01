package feed

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/pkg/models"
)

type fakeLive struct {
	opened  chan struct{}
	batches chan []models.PriceRecord
	done    chan error
}

func newFakeLive() *fakeLive {
	return &fakeLive{
		opened:  make(chan struct{}),
		batches: make(chan []models.PriceRecord, 4),
		done:    make(chan error, 1),
	}
}

func (f *fakeLive) Start()                               {}
func (f *fakeLive) Opened() <-chan struct{}              { return f.opened }
func (f *fakeLive) Batches() <-chan []models.PriceRecord { return f.batches }
func (f *fakeLive) Done() <-chan error                   { return f.done }
func (f *fakeLive) Close()                               {}

func testManager(live LiveSource, startup, period time.Duration) *Manager {
	cfg := DefaultConfig()
	cfg.StartupTimeout = startup
	cfg.MockPeriod = period
	mock := NewMock(cfg.Symbols, RealRand{Rand: rand.New(rand.NewSource(1))}, RealClock{})
	return NewManager(cfg, live, mock, zap.NewNop())
}

func nextEvent(t *testing.T, m *Manager, timeout time.Duration) Event {
	t.Helper()
	select {
	case ev := <-m.Events():
		return ev
	case <-time.After(timeout):
		t.Fatal("timed out waiting for feed event")
		return Event{}
	}
}

func TestManagerLiveConnectsBeforeTimeout(t *testing.T) {
	live := newFakeLive()
	m := testManager(live, 200*time.Millisecond, 20*time.Millisecond)
	m.Run()
	defer m.Close()

	close(live.opened)

	ev := nextEvent(t, m, time.Second)
	if ev.Mode != ModeLive {
		t.Fatalf("expected live mode event, got %v", ev.Mode)
	}
	if len(ev.Records) != 0 {
		t.Fatalf("mode transition should carry no records, got %d", len(ev.Records))
	}

	live.batches <- []models.PriceRecord{{Symbol: "AAPL", Price: 187.3}}
	ev = nextEvent(t, m, time.Second)
	if ev.Mode != ModeLive || len(ev.Records) != 1 {
		t.Fatalf("expected forwarded live batch, got %+v", ev)
	}

	// The mock must never seed or tick while live holds the feed.
	select {
	case ev := <-m.Events():
		if ev.Mode == ModeMock {
			t.Fatalf("mock event while live connected: %+v", ev)
		}
	case <-time.After(300 * time.Millisecond):
	}
}

func TestManagerBatchArrivingWithOpenSignalIsNotDropped(t *testing.T) {
	live := newFakeLive()

	// Connection and first batch are both ready before the loop runs, so
	// either channel may be selected first. The batch must survive.
	close(live.opened)
	live.batches <- []models.PriceRecord{{Symbol: "AAPL", Price: 187.3}}

	m := testManager(live, 200*time.Millisecond, 20*time.Millisecond)
	m.Run()
	defer m.Close()

	ev := nextEvent(t, m, time.Second)
	if ev.Mode != ModeLive || len(ev.Records) != 0 {
		t.Fatalf("expected live transition first, got %+v", ev)
	}

	ev = nextEvent(t, m, time.Second)
	if ev.Mode != ModeLive || len(ev.Records) != 1 {
		t.Fatalf("expected the queued batch to be forwarded, got %+v", ev)
	}
}

func TestManagerDialFailureFallsBackToMock(t *testing.T) {
	live := newFakeLive()
	m := testManager(live, time.Hour, 20*time.Millisecond)
	m.Run()
	defer m.Close()

	live.done <- errors.New("connection refused")

	ev := nextEvent(t, m, time.Second)
	if ev.Mode != ModeMock {
		t.Fatalf("expected mock mode, got %v", ev.Mode)
	}
	if len(ev.Records) != 4 {
		t.Fatalf("expected seed batch of 4, got %d", len(ev.Records))
	}
	if ev.Records[0].Price != 100 || ev.Records[3].Price != 250 {
		t.Errorf("unexpected seed prices: %f, %f", ev.Records[0].Price, ev.Records[3].Price)
	}

	ev = nextEvent(t, m, time.Second)
	if ev.Mode != ModeMock || len(ev.Records) != 4 {
		t.Fatalf("expected mock tick batch, got %+v", ev)
	}
}

func TestManagerStartupTimeoutElectsMock(t *testing.T) {
	live := newFakeLive()
	m := testManager(live, 30*time.Millisecond, 20*time.Millisecond)
	m.Run()
	defer m.Close()

	ev := nextEvent(t, m, time.Second)
	if ev.Mode != ModeMock || len(ev.Records) != 4 {
		t.Fatalf("expected mock seed after startup timeout, got %+v", ev)
	}
}

func TestManagerLiveConnectionStopsMockTicker(t *testing.T) {
	live := newFakeLive()
	m := testManager(live, 10*time.Millisecond, 20*time.Millisecond)
	m.Run()
	defer m.Close()

	// Mock seeds after the startup timeout.
	ev := nextEvent(t, m, time.Second)
	if ev.Mode != ModeMock {
		t.Fatalf("expected mock seed, got %+v", ev)
	}

	// Live connects late: the mock ticker must be torn down.
	close(live.opened)

	deadline := time.After(time.Second)
	for {
		select {
		case ev := <-m.Events():
			if ev.Mode == ModeLive && ev.Records == nil {
				// Transition observed; verify no further mock ticks arrive.
				select {
				case ev := <-m.Events():
					if ev.Mode == ModeMock {
						t.Fatalf("mock tick after live connected: %+v", ev)
					}
				case <-time.After(150 * time.Millisecond):
				}
				return
			}
		case <-deadline:
			t.Fatal("never observed live transition")
		}
	}
}

func TestManagerLiveFailureAfterDataDoesNotReseed(t *testing.T) {
	live := newFakeLive()
	m := testManager(live, time.Hour, 10*time.Millisecond)
	m.Run()
	defer m.Close()

	close(live.opened)
	if ev := nextEvent(t, m, time.Second); ev.Mode != ModeLive {
		t.Fatalf("expected live transition, got %+v", ev)
	}

	live.batches <- []models.PriceRecord{{Symbol: "AAPL", Price: 431}}
	if ev := nextEvent(t, m, time.Second); len(ev.Records) != 1 {
		t.Fatalf("expected live batch, got %+v", ev)
	}

	live.done <- errors.New("broken pipe")

	ev := nextEvent(t, m, time.Second)
	if ev.Mode != ModeMock {
		t.Fatalf("expected mock fallback, got %v", ev.Mode)
	}
	if len(ev.Records) != 0 {
		t.Fatalf("store already has data, fallback must not reseed: %+v", ev.Records)
	}

	// The walk continues from the last live price, not the seed values.
	ev = nextEvent(t, m, time.Second)
	if ev.Mode != ModeMock {
		t.Fatalf("expected mock tick, got %v", ev.Mode)
	}
	for _, rec := range ev.Records {
		if rec.Symbol == "AAPL" {
			if rec.Price < 429 || rec.Price > 433 {
				t.Errorf("expected walk near last live price 431, got %f", rec.Price)
			}
		}
	}
}
