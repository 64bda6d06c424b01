package market

import "time"

// HistoryEntry is one (timestamp, price) observation for the charted symbol.
type HistoryEntry struct {
	TS    time.Time
	Price float64
}

// History is the rolling window of recent prices for the charted symbol.
// It holds at most its capacity, evicting oldest first, and is discarded
// entirely when the selection changes.
type History struct {
	capacity int
	entries  []HistoryEntry
}

// NewHistory creates a History with the given capacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = 1
	}
	return &History{capacity: capacity}
}

// Append adds an entry, evicting the oldest when over capacity.
func (h *History) Append(e HistoryEntry) {
	h.entries = append(h.entries, e)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[len(h.entries)-h.capacity:]
	}
}

// Reset discards all entries.
func (h *History) Reset() {
	h.entries = nil
}

// Entries returns the buffered entries oldest first.
func (h *History) Entries() []HistoryEntry {
	out := make([]HistoryEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of buffered entries.
func (h *History) Len() int {
	return len(h.entries)
}
