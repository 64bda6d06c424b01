package tui

import (
	"math/rand"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/internal/feed"
	"github.com/tickwatch/tickwatch/pkg/models"
)

func newTestModel(symbols []string) *Model {
	cfg := feed.DefaultConfig()
	cfg.Symbols = symbols
	mock := feed.NewMock(symbols, feed.RealRand{Rand: rand.New(rand.NewSource(1))}, feed.RealClock{})
	mgr := feed.NewManager(cfg, feed.NewLive(cfg.URL, zap.NewNop()), mock, zap.NewNop())

	m := NewModel(mgr, symbols)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m.View() // propagates focus to the panels
	return m
}

func rec(symbol string, price float64) models.PriceRecord {
	return models.PriceRecord{Symbol: symbol, Price: price, TS: time.Now()}
}

func TestModelAppliesFeedEvent(t *testing.T) {
	m := newTestModel([]string{"AAPL", "TSLA"})

	m.Update(feedEventMsg{Mode: feed.ModeMock, Records: []models.PriceRecord{
		rec("AAPL", 100),
		rec("TSLA", 150),
	}})

	if m.mode != feed.ModeMock {
		t.Errorf("expected mock mode, got %v", m.mode)
	}
	if m.store.Len() != 2 {
		t.Fatalf("expected 2 stored records, got %d", m.store.Len())
	}
	if m.selected != "AAPL" {
		t.Errorf("expected default selection AAPL, got %q", m.selected)
	}
	if m.history.Len() != 1 {
		t.Errorf("expected 1 history point for the selected symbol, got %d", m.history.Len())
	}
	if got := len(m.alerts.Alerts()); got != 0 {
		t.Errorf("first records must not alert, got %d alerts", got)
	}
}

func TestModelAlertsOnBigMove(t *testing.T) {
	m := newTestModel([]string{"AAPL"})

	m.Update(feedEventMsg{Mode: feed.ModeLive, Records: []models.PriceRecord{rec("AAPL", 100)}})
	m.Update(feedEventMsg{Mode: feed.ModeLive, Records: []models.PriceRecord{rec("AAPL", 101.5)}})

	alerts := m.alerts.Alerts()
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].Symbol != "AAPL" || alerts[0].Price != 101.5 {
		t.Errorf("unexpected alert: %+v", alerts[0])
	}
	if m.history.Len() != 2 {
		t.Errorf("expected 2 history points, got %d", m.history.Len())
	}
}

func TestModelSelectionChangeResetsHistory(t *testing.T) {
	m := newTestModel([]string{"AAPL", "TSLA"})

	for i := 0; i < 3; i++ {
		m.Update(feedEventMsg{Mode: feed.ModeMock, Records: []models.PriceRecord{
			rec("AAPL", 100+float64(i)),
			rec("TSLA", 150),
		}})
	}
	if m.history.Len() != 3 {
		t.Fatalf("expected 3 history points before selection change, got %d", m.history.Len())
	}

	// Quotes panel has default focus; arrow down moves the selection.
	m.Update(tea.KeyMsg{Type: tea.KeyDown})

	if m.selected != "TSLA" {
		t.Fatalf("expected selection to move to TSLA, got %q", m.selected)
	}
	if m.history.Len() != 0 {
		t.Errorf("history must reset on selection change, got %d entries", m.history.Len())
	}

	// The next update starts filling the buffer for the new symbol.
	m.Update(feedEventMsg{Mode: feed.ModeMock, Records: []models.PriceRecord{
		rec("AAPL", 104),
		rec("TSLA", 151),
	}})
	entries := m.history.Entries()
	if len(entries) != 1 || entries[0].Price != 151 {
		t.Errorf("expected fresh history for TSLA, got %+v", entries)
	}
}

func TestModelFocusCycling(t *testing.T) {
	m := newTestModel([]string{"AAPL"})

	if m.focusedPanel != FocusQuotes {
		t.Fatalf("expected quotes focused by default, got %v", m.focusedPanel)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focusedPanel != FocusChart {
		t.Errorf("expected chart focused after tab, got %v", m.focusedPanel)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.focusedPanel != FocusQuotes {
		t.Errorf("expected quotes focused after shift+tab, got %v", m.focusedPanel)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyF3})
	if m.focusedPanel != FocusAlerts {
		t.Errorf("expected alerts focused after f3, got %v", m.focusedPanel)
	}
}
