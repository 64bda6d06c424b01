package feed

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Manager owns the live and mock sources and decides which one is allowed to
// write price batches. Startup policy: the live dial is attempted first; if
// it has not connected within StartupTimeout the mock generator is elected.
// Exactly one source is authoritative at any moment:
//
//   - mock activation is start-once: a second election while its ticker is
//     running is a no-op, and it only seeds if no data was seen yet;
//   - a live connection tears the mock ticker down;
//   - a live failure or closure switches to mock permanently, with no
//     reconnection attempts for the rest of the session.
//
// All batches and mode transitions are serialized onto a single events
// channel, so consumers apply each batch in full before observing the next.
type Manager struct {
	cfg    Config
	live   LiveSource
	mock   *Mock
	logger *zap.Logger

	events chan Event

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewManager creates a Manager over the given sources.
func NewManager(cfg Config, live LiveSource, mock *Mock, logger *zap.Logger) *Manager {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultConfig().EventBuffer
	}
	if cfg.StartupTimeout <= 0 {
		cfg.StartupTimeout = DefaultConfig().StartupTimeout
	}
	if cfg.MockPeriod <= 0 {
		cfg.MockPeriod = DefaultConfig().MockPeriod
	}

	return &Manager{
		cfg:    cfg,
		live:   live,
		mock:   mock,
		logger: logger,
		events: make(chan Event, cfg.EventBuffer),
		closed: make(chan struct{}),
	}
}

// Run starts the live dial and the arbitration loop.
func (m *Manager) Run() {
	m.wg.Add(1)
	go m.run()
}

func (m *Manager) run() {
	defer m.wg.Done()

	mode := ModeConnecting
	sawData := false

	var ticker *time.Ticker
	var tickC <-chan time.Time

	startMock := func() {
		if tickC != nil {
			return
		}
		mode = ModeMock
		ev := Event{Mode: ModeMock}
		if !sawData {
			ev.Records = m.mock.Seed()
			sawData = true
		}
		m.emit(ev)
		ticker = time.NewTicker(m.cfg.MockPeriod)
		tickC = ticker.C
	}
	stopMock := func() {
		if ticker != nil {
			ticker.Stop()
			ticker = nil
			tickC = nil
		}
	}
	defer stopMock()

	startup := time.NewTimer(m.cfg.StartupTimeout)
	defer startup.Stop()

	opened := m.live.Opened()
	done := m.live.Done()
	m.live.Start()

	for {
		select {
		case <-m.closed:
			return

		case <-startup.C:
			if mode != ModeLive {
				m.logger.Info("live feed not established in time, switching to mock data",
					zap.Duration("timeout", m.cfg.StartupTimeout))
				startMock()
			}

		case <-opened:
			opened = nil
			mode = ModeLive
			stopMock()
			m.emit(Event{Mode: ModeLive})

		case batch := <-m.live.Batches():
			if mode != ModeLive {
				// The open signal can still be pending in this iteration
				// when the connection delivered a batch immediately. Treat
				// it as the open rather than dropping the batch.
				if opened != nil {
					select {
					case <-opened:
						opened = nil
						mode = ModeLive
						stopMock()
						m.emit(Event{Mode: ModeLive})
					default:
					}
				}
			}
			if mode != ModeLive {
				continue
			}
			sawData = true
			m.mock.Observe(batch)
			m.emit(Event{Mode: ModeLive, Records: batch})

		case err := <-done:
			done = nil
			opened = nil
			if err != nil {
				m.logger.Warn("live feed lost, falling back to mock data", zap.Error(err))
			}
			startup.Stop()
			startMock()

		case <-tickC:
			m.emit(Event{Mode: ModeMock, Records: m.mock.Tick()})
		}
	}
}

func (m *Manager) emit(ev Event) {
	select {
	case m.events <- ev:
	case <-m.closed:
	}
}

// Events returns the consolidated feed events channel.
func (m *Manager) Events() <-chan Event {
	return m.events
}

// Close shuts the manager and both sources down.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.closed)
	})
	m.live.Close()
	m.wg.Wait()
}
