package rules

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tickwatch/tickwatch/pkg/models"
)

const maxEvents = 50

// Clock abstracts time for deterministic testing.
type Clock interface {
	Now() time.Time
}

// Rule is a simple threshold alert, e.g. AAPL > 200. Operator is one of
// ">", "<", ">=", "<=", "=="; anything else never fires.
type Rule struct {
	ID          int64         `json:"id"`
	Symbol      string        `json:"symbol"`
	Operator    string        `json:"operator"`
	Threshold   float64       `json:"threshold"`
	Description string        `json:"description"`
	Enabled     bool          `json:"enabled"`
	Cooldown    time.Duration `json:"cooldown"`

	lastTriggered time.Time
}

// Event is a concrete rule firing at a specific time.
type Event struct {
	RuleID      int64     `json:"rule_id"`
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	TriggeredAt time.Time `json:"triggered_at"`
	Message     string    `json:"message"`
}

// Engine evaluates threshold rules against price snapshots, applies per-rule
// cooldowns to avoid spamming, and keeps a small history of recent firings.
type Engine struct {
	mu     sync.Mutex
	rules  []*Rule
	nextID int64
	events []Event
	clock  Clock
}

// NewEngine creates an empty rule engine.
func NewEngine(clock Clock) *Engine {
	return &Engine{nextID: 1, clock: clock}
}

// AddRule registers a rule and returns it with its assigned ID.
func (e *Engine) AddRule(symbol, operator string, threshold float64, description string, cooldown time.Duration) Rule {
	e.mu.Lock()
	defer e.mu.Unlock()

	r := &Rule{
		ID:          e.nextID,
		Symbol:      strings.ToUpper(symbol),
		Operator:    operator,
		Threshold:   threshold,
		Description: description,
		Enabled:     true,
		Cooldown:    cooldown,
	}
	e.rules = append(e.rules, r)
	e.nextID++
	return *r
}

// Rules returns a copy of all registered rules.
func (e *Engine) Rules() []Rule {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Rule, 0, len(e.rules))
	for _, r := range e.rules {
		out = append(out, *r)
	}
	return out
}

// Check evaluates all rules against the snapshot and returns newly fired
// events, if any.
func (e *Engine) Check(records []models.PriceRecord) []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.rules) == 0 {
		return nil
	}

	now := e.clock.Now()
	bySymbol := make(map[string]models.PriceRecord, len(records))
	for _, rec := range records {
		bySymbol[strings.ToUpper(rec.Symbol)] = rec
	}

	var fired []Event
	for _, r := range e.rules {
		if !r.Enabled {
			continue
		}
		rec, ok := bySymbol[r.Symbol]
		if !ok {
			continue
		}
		if !conditionMet(r.Operator, rec.Price, r.Threshold) {
			continue
		}
		if !r.lastTriggered.IsZero() && now.Sub(r.lastTriggered) < r.Cooldown {
			continue
		}

		r.lastTriggered = now
		ev := Event{
			RuleID:      r.ID,
			Symbol:      r.Symbol,
			Price:       rec.Price,
			TriggeredAt: now,
			Message:     fmt.Sprintf("Alert %d: %s %s %g (current: %.2f)", r.ID, r.Symbol, r.Operator, r.Threshold, rec.Price),
		}
		fired = append(fired, ev)
		e.events = append(e.events, ev)
	}

	if len(e.events) > maxEvents {
		e.events = e.events[len(e.events)-maxEvents:]
	}
	return fired
}

// RecentEvents returns the retained firing history, oldest first.
func (e *Engine) RecentEvents() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Event, len(e.events))
	copy(out, e.events)
	return out
}

func conditionMet(operator string, price, threshold float64) bool {
	switch operator {
	case ">":
		return price > threshold
	case "<":
		return price < threshold
	case ">=":
		return price >= threshold
	case "<=":
		return price <= threshold
	case "==":
		return price == threshold
	default:
		return false
	}
}
