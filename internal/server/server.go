package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/internal/cache"
	"github.com/tickwatch/tickwatch/internal/rules"
	"github.com/tickwatch/tickwatch/pkg/models"
)

// QuoteProvider produces the current snapshot for all configured symbols.
type QuoteProvider interface {
	Snapshot(ctx context.Context) []models.PriceRecord
}

// Notifier forwards fired rule events to an external channel.
type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, ev rules.Event)
}

// Server serves the price feed: /ws/prices streams price_update messages to
// each client on a fixed period, and /health reports component state. All
// clients within a cache window share the same snapshot, and rule evaluation
// happens on the snapshot path so alerts fire whether or not anyone is
// connected to see them.
type Server struct {
	cfg      Config
	provider QuoteProvider
	cache    *cache.Cache
	engine   *rules.Engine
	notifier Notifier
	logger   *zap.Logger
	upgrader websocket.Upgrader

	// snapMu serializes the cache-or-fetch path so concurrent clients do not
	// stampede the provider on a cache miss.
	snapMu sync.Mutex

	closed    chan struct{}
	closeOnce sync.Once
}

// New creates a Server.
func New(cfg Config, provider QuoteProvider, c *cache.Cache, engine *rules.Engine, notifier Notifier, logger *zap.Logger) *Server {
	if cfg.BroadcastPeriod <= 0 {
		cfg.BroadcastPeriod = DefaultConfig().BroadcastPeriod
	}
	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = DefaultConfig().CacheMaxAge
	}

	return &Server{
		cfg:      cfg,
		provider: provider,
		cache:    c,
		engine:   engine,
		notifier: notifier,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		closed: make(chan struct{}),
	}
}

// Handler returns the HTTP mux for the feed endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/prices", s.handlePrices)
	mux.HandleFunc("/alerts/events", s.handleAlertEvents)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Close stops all client streams.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s.logger.Info("feed client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Read pump: we never expect client frames, but reading is required to
	// process control frames and to notice the peer going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.BroadcastPeriod)
	defer ticker.Stop()

	for {
		snapshot := s.freshPrices(r.Context())
		if err := conn.WriteJSON(models.NewPriceUpdate(snapshot)); err != nil {
			s.logger.Info("feed client disconnected", zap.Error(err))
			return
		}

		select {
		case <-ticker.C:
		case <-gone:
			return
		case <-s.closed:
			return
		}
	}
}

// freshPrices returns a recent snapshot, preferring the cache, and runs the
// alert rules over whatever it returns.
func (s *Server) freshPrices(ctx context.Context) []models.PriceRecord {
	s.snapMu.Lock()
	records, ok := s.cache.Load(ctx, s.cfg.CacheMaxAge)
	if !ok {
		records = s.provider.Snapshot(ctx)
		s.cache.Save(ctx, records)
	}
	s.snapMu.Unlock()

	for _, ev := range s.engine.Check(records) {
		s.logger.Info("alert fired", zap.String("message", ev.Message))
		s.notifier.Send(ctx, ev)
	}
	return records
}

// handleAlertEvents lists the rule engine's retained firing history, oldest
// first, for debugging and demos.
func (s *Server) handleAlertEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.engine.RecentEvents()); err != nil {
		s.logger.Error("encode alert events response", zap.Error(err))
	}
}

type healthResponse struct {
	Status       string       `json:"status"`
	CacheBackend string       `json:"cache_backend"`
	AlertRules   []rules.Rule `json:"alert_rules"`
	WebexEnabled bool         `json:"webex_enabled"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:       "ok",
		CacheBackend: s.cache.Backend(),
		AlertRules:   s.engine.Rules(),
		WebexEnabled: s.notifier.Enabled(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("encode health response", zap.Error(err))
	}
}
