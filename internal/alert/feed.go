package alert

import (
	"math"
	"time"

	"github.com/tickwatch/tickwatch/pkg/models"
)

// Direction indicates which way a big move went.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

// Alert is one big-move notice shown in the dashboard's alert feed.
type Alert struct {
	Symbol    string
	Direction Direction
	Price     float64
	At        time.Time
}

// Feed detects big price moves and keeps the most recent alerts, newest
// first. A move qualifies when the absolute price delta since the symbol's
// previous record exceeds the threshold; a symbol's first-ever record never
// alerts because there is nothing to compare against.
type Feed struct {
	threshold float64
	capacity  int
	alerts    []Alert
	now       func() time.Time
}

// NewFeed creates a Feed with the given absolute-move threshold and capacity.
func NewFeed(threshold float64, capacity int) *Feed {
	if capacity <= 0 {
		capacity = 1
	}
	return &Feed{
		threshold: threshold,
		capacity:  capacity,
		now:       time.Now,
	}
}

// Observe inspects a freshly stored record. rec must carry the store's
// recomputed Change; first marks a symbol's first observation. It returns
// the produced alert, or nil when the move does not qualify.
func (f *Feed) Observe(rec models.PriceRecord, first bool) *Alert {
	if first {
		return nil
	}
	if math.Abs(rec.Change) <= f.threshold {
		return nil
	}

	dir := DirectionDown
	if rec.Change > 0 {
		dir = DirectionUp
	}

	a := Alert{
		Symbol:    rec.Symbol,
		Direction: dir,
		Price:     rec.Price,
		At:        f.now(),
	}
	f.push(a)
	return &a
}

// push prepends and trims from the bottom.
func (f *Feed) push(a Alert) {
	f.alerts = append([]Alert{a}, f.alerts...)
	if len(f.alerts) > f.capacity {
		f.alerts = f.alerts[:f.capacity]
	}
}

// Alerts returns the visible alerts, newest first.
func (f *Feed) Alerts() []Alert {
	out := make([]Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}

// Len returns the number of visible alerts.
func (f *Feed) Len() int {
	return len(f.alerts)
}
