package market

import (
	"testing"
	"time"
)

func TestHistoryCapacity(t *testing.T) {
	h := NewHistory(10)
	base := time.Now()

	for i := 0; i < 25; i++ {
		h.Append(HistoryEntry{TS: base.Add(time.Duration(i) * time.Second), Price: float64(100 + i)})
		if h.Len() > 10 {
			t.Fatalf("history exceeded capacity: %d", h.Len())
		}
	}

	entries := h.Entries()
	if len(entries) != 10 {
		t.Fatalf("expected 10 entries, got %d", len(entries))
	}
	// Oldest evicted first: the window should hold the last 10 appends.
	if entries[0].Price != 115 {
		t.Errorf("expected oldest surviving price 115, got %f", entries[0].Price)
	}
	if entries[9].Price != 124 {
		t.Errorf("expected newest price 124, got %f", entries[9].Price)
	}
}

func TestHistoryReset(t *testing.T) {
	h := NewHistory(10)
	h.Append(HistoryEntry{TS: time.Now(), Price: 100})
	h.Append(HistoryEntry{TS: time.Now(), Price: 101})

	h.Reset()
	if h.Len() != 0 {
		t.Errorf("expected empty history after reset, got %d", h.Len())
	}

	// Fills back up after a reset.
	h.Append(HistoryEntry{TS: time.Now(), Price: 102})
	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
}
