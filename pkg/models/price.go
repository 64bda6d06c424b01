package models

import "time"

// MessageTypePriceUpdate tags a websocket frame carrying a price snapshot.
// Frames with any other type are ignored by consumers.
const MessageTypePriceUpdate = "price_update"

// PriceRecord is one symbol's price snapshot at a point in time.
type PriceRecord struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	PercentChange float64   `json:"percentChange"`
	TS            time.Time `json:"ts"`
}

// PriceUpdate is the wire message broadcast by the feed server and consumed
// by the dashboard's live feed source.
type PriceUpdate struct {
	Type string        `json:"type"`
	Data []PriceRecord `json:"data"`
}

// NewPriceUpdate wraps a snapshot in a tagged wire message.
func NewPriceUpdate(records []PriceRecord) PriceUpdate {
	return PriceUpdate{Type: MessageTypePriceUpdate, Data: records}
}
