package feed

import (
	"github.com/tickwatch/tickwatch/pkg/models"
)

const (
	// mockSeedBase and mockSeedStep give symbol i a deterministic starting
	// price of base + i*step.
	mockSeedBase = 100.0
	mockSeedStep = 50.0
	// mockFloor is the lowest price the random walk can reach.
	mockFloor = 1.0
)

// Mock generates synthetic price batches with a bounded random walk:
// newPrice = max(1, prev + U) with U uniform on (-2, 2). It carries the
// per-symbol baseline between ticks and can absorb live observations so a
// fallback continues from the last real price instead of jumping back to
// the seed values.
type Mock struct {
	symbols []string
	prices  map[string]float64
	rand    Rand
	clock   Clock
}

// NewMock creates a Mock for the given ordered symbol list.
func NewMock(symbols []string, rnd Rand, clock Clock) *Mock {
	return &Mock{
		symbols: symbols,
		prices:  make(map[string]float64, len(symbols)),
		rand:    rnd,
		clock:   clock,
	}
}

// Seed returns the deterministic initial batch: symbol i at 100 + i*50 with
// zero change and percent change, stamped with the activation time.
func (m *Mock) Seed() []models.PriceRecord {
	now := m.clock.Now()
	records := make([]models.PriceRecord, 0, len(m.symbols))
	for i, sym := range m.symbols {
		price := mockSeedBase + float64(i)*mockSeedStep
		m.prices[sym] = price
		records = append(records, models.PriceRecord{
			Symbol: sym,
			Price:  price,
			TS:     now,
		})
	}
	return records
}

// Tick advances every symbol one random-walk step and returns the batch.
// Symbols without a baseline yet walk from their seed price.
func (m *Mock) Tick() []models.PriceRecord {
	now := m.clock.Now()
	records := make([]models.PriceRecord, 0, len(m.symbols))
	for i, sym := range m.symbols {
		prev, ok := m.prices[sym]
		if !ok {
			prev = mockSeedBase + float64(i)*mockSeedStep
		}

		delta := (m.rand.Float64() - 0.5) * 4
		price := prev + delta
		if price < mockFloor {
			price = mockFloor
		}

		change := price - prev
		percent := 0.0
		if prev != 0 {
			percent = change / prev * 100
		}
		m.prices[sym] = price

		records = append(records, models.PriceRecord{
			Symbol:        sym,
			Price:         price,
			Change:        change,
			PercentChange: percent,
			TS:            now,
		})
	}
	return records
}

// Observe updates the walk baseline from externally observed records, so a
// later fallback continues from the last live price.
func (m *Mock) Observe(records []models.PriceRecord) {
	for _, rec := range records {
		m.prices[rec.Symbol] = rec.Price
	}
}
