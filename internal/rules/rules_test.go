package rules

import (
	"testing"
	"time"

	"github.com/tickwatch/tickwatch/pkg/models"
)

type stubClock struct{ now time.Time }

func (c *stubClock) Now() time.Time { return c.now }

func snapshot(price float64) []models.PriceRecord {
	return []models.PriceRecord{{Symbol: "AAPL", Price: price}}
}

func TestEngineOperators(t *testing.T) {
	cases := []struct {
		operator  string
		threshold float64
		price     float64
		want      bool
	}{
		{">", 200, 201, true},
		{">", 200, 200, false},
		{"<", 180, 179.5, true},
		{"<", 180, 180, false},
		{">=", 200, 200, true},
		{"<=", 180, 180, true},
		{"==", 100, 100, true},
		{"==", 100, 100.01, false},
		{"!?", 100, 100, false}, // unknown operator never fires
	}

	for _, tc := range cases {
		clock := &stubClock{now: time.Unix(1700000000, 0)}
		e := NewEngine(clock)
		e.AddRule("AAPL", tc.operator, tc.threshold, "test", time.Minute)

		fired := e.Check(snapshot(tc.price))
		if (len(fired) > 0) != tc.want {
			t.Errorf("%s %g vs %g: fired=%v, want %v", tc.operator, tc.threshold, tc.price, len(fired) > 0, tc.want)
		}
	}
}

func TestEngineCooldown(t *testing.T) {
	clock := &stubClock{now: time.Unix(1700000000, 0)}
	e := NewEngine(clock)
	e.AddRule("AAPL", ">", 100, "test", time.Minute)

	if fired := e.Check(snapshot(150)); len(fired) != 1 {
		t.Fatalf("expected first check to fire, got %d", len(fired))
	}
	if fired := e.Check(snapshot(150)); len(fired) != 0 {
		t.Fatalf("expected cooldown to suppress refire, got %d", len(fired))
	}

	clock.now = clock.now.Add(61 * time.Second)
	if fired := e.Check(snapshot(150)); len(fired) != 1 {
		t.Fatalf("expected refire after cooldown, got %d", len(fired))
	}
}

func TestEngineDisabledRule(t *testing.T) {
	e := NewEngine(&stubClock{now: time.Now()})
	r := e.AddRule("AAPL", ">", 0, "always", 0)
	_ = r

	// Mutate through a fresh engine to check Enabled is honored: build an
	// engine whose only rule is disabled.
	e2 := NewEngine(&stubClock{now: time.Now()})
	e2.rules = append(e2.rules, &Rule{ID: 1, Symbol: "AAPL", Operator: ">", Threshold: 0, Enabled: false})

	if fired := e2.Check(snapshot(100)); len(fired) != 0 {
		t.Errorf("disabled rule fired")
	}
}

func TestEngineEventHistoryCapped(t *testing.T) {
	clock := &stubClock{now: time.Unix(1700000000, 0)}
	e := NewEngine(clock)
	e.AddRule("AAPL", ">", 0, "always", 0)

	for i := 0; i < 60; i++ {
		clock.now = clock.now.Add(time.Second)
		e.Check(snapshot(float64(100 + i)))
	}

	events := e.RecentEvents()
	if len(events) != 50 {
		t.Fatalf("expected 50 retained events, got %d", len(events))
	}
	if events[len(events)-1].Price != 159 {
		t.Errorf("expected newest event last, got price %f", events[len(events)-1].Price)
	}
}

func TestEngineMessageFormat(t *testing.T) {
	e := NewEngine(&stubClock{now: time.Now()})
	e.AddRule("TSLA", "<", 180, "TSLA dip", time.Minute)

	fired := e.Check([]models.PriceRecord{{Symbol: "TSLA", Price: 175.25}})
	if len(fired) != 1 {
		t.Fatalf("expected rule to fire")
	}
	want := "Alert 1: TSLA < 180 (current: 175.25)"
	if fired[0].Message != want {
		t.Errorf("message %q, want %q", fired[0].Message, want)
	}
}
