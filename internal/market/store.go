package market

import (
	"github.com/tickwatch/tickwatch/pkg/models"
)

// Store keeps the latest observed PriceRecord per tracked symbol. Entries are
// created lazily on first update and overwritten in place; they are never
// removed during a session. Change and percent change are always recomputed
// against the previously stored record, so values carried on the wire are
// treated as advisory only.
//
// Store is owned by the dashboard's update loop and needs no locking: all
// mutation happens from a single goroutine.
type Store struct {
	symbols []string
	index   map[string]int
	records map[string]models.PriceRecord
}

// NewStore creates a Store tracking the given ordered symbol list.
func NewStore(symbols []string) *Store {
	index := make(map[string]int, len(symbols))
	for i, s := range symbols {
		index[s] = i
	}
	return &Store{
		symbols: symbols,
		index:   index,
		records: make(map[string]models.PriceRecord, len(symbols)),
	}
}

// Tracked reports whether the symbol belongs to the tracked set.
func (s *Store) Tracked(symbol string) bool {
	_, ok := s.index[symbol]
	return ok
}

// Symbols returns the tracked symbols in display order.
func (s *Store) Symbols() []string {
	return s.symbols
}

// Apply stores rec as the latest record for its symbol, recomputing Change
// and PercentChange against the previously stored record. Both are zero for
// a symbol's first-ever record. It returns the stored record and whether it
// was the first observation for that symbol. Records for untracked symbols
// are ignored.
func (s *Store) Apply(rec models.PriceRecord) (models.PriceRecord, bool) {
	if !s.Tracked(rec.Symbol) {
		return models.PriceRecord{}, false
	}

	prev, ok := s.records[rec.Symbol]
	if !ok {
		rec.Change = 0
		rec.PercentChange = 0
	} else {
		rec.Change = rec.Price - prev.Price
		rec.PercentChange = 0
		if prev.Price != 0 {
			rec.PercentChange = rec.Change / prev.Price * 100
		}
	}

	s.records[rec.Symbol] = rec
	return rec, !ok
}

// Get returns the latest record for a symbol, if one exists.
func (s *Store) Get(symbol string) (models.PriceRecord, bool) {
	rec, ok := s.records[symbol]
	return rec, ok
}

// Snapshot returns a copy of the latest record per symbol.
func (s *Store) Snapshot() map[string]models.PriceRecord {
	out := make(map[string]models.PriceRecord, len(s.records))
	for sym, rec := range s.records {
		out[sym] = rec
	}
	return out
}

// Len returns how many tracked symbols have a record.
func (s *Store) Len() int {
	return len(s.records)
}
