package feed

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/pkg/models"
)

const liveHandshakeTimeout = 10 * time.Second

// Live reads price batches from the feed server's websocket endpoint. It
// dials once: any dial or transport error is terminal and reported on Done,
// after which the manager switches to the mock source for the rest of the
// session.
type Live struct {
	url    string
	logger *zap.Logger

	opened  chan struct{}
	batches chan []models.PriceRecord
	done    chan error

	mu   sync.Mutex
	conn *websocket.Conn

	closed    chan struct{}
	closeOnce sync.Once
}

// NewLive creates a live source for the given websocket URL.
func NewLive(url string, logger *zap.Logger) *Live {
	return &Live{
		url:     url,
		logger:  logger,
		opened:  make(chan struct{}),
		batches: make(chan []models.PriceRecord, 16),
		done:    make(chan error, 1),
		closed:  make(chan struct{}),
	}
}

func (l *Live) Opened() <-chan struct{}              { return l.opened }
func (l *Live) Batches() <-chan []models.PriceRecord { return l.batches }
func (l *Live) Done() <-chan error                   { return l.done }

// Start dials and reads in a background goroutine.
func (l *Live) Start() {
	go l.run()
}

func (l *Live) run() {
	d := websocket.Dialer{HandshakeTimeout: liveHandshakeTimeout}

	conn, _, err := d.Dial(l.url, nil)
	if err != nil {
		l.logger.Warn("live feed dial failed", zap.String("url", l.url), zap.Error(err))
		l.done <- err
		return
	}

	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()

	select {
	case <-l.closed:
		conn.Close()
		l.done <- nil
		return
	default:
	}

	close(l.opened)
	l.logger.Info("live feed connected", zap.String("url", l.url))

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			l.logger.Warn("live feed closed", zap.Error(err))
			l.done <- err
			return
		}

		var msg models.PriceUpdate
		if err := json.Unmarshal(payload, &msg); err != nil {
			// Malformed frames are dropped without raising an error.
			continue
		}
		if msg.Type != models.MessageTypePriceUpdate {
			continue
		}

		select {
		case l.batches <- msg.Data:
		case <-l.closed:
			conn.Close()
			l.done <- nil
			return
		}
	}
}

// Close tears down the connection, unblocking the read loop.
func (l *Live) Close() {
	l.closeOnce.Do(func() {
		close(l.closed)
		l.mu.Lock()
		if l.conn != nil {
			l.conn.Close()
		}
		l.mu.Unlock()
	})
}
