package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/internal/feed"
	"github.com/tickwatch/tickwatch/pkg/models"
)

const (
	seedBase = 100.0
	seedStep = 50.0
)

// Provider produces the current price snapshot for a configured symbol list.
// With an API key it quotes finnhub symbol by symbol; any per-symbol failure
// falls back to a random walk for that symbol. Without a key the whole
// snapshot is the random walk. The baseline state tracks the last price per
// symbol either way, so deltas stay continuous across fallbacks.
type Provider struct {
	symbols []string
	token   string
	baseURL string
	httpc   *http.Client
	rand    feed.Rand
	clock   feed.Clock
	logger  *zap.Logger

	baseline map[string]float64
}

// Config holds configuration for the Provider.
type Config struct {
	Symbols []string
	Token   string
	// BaseURL is the quote API root, e.g. https://finnhub.io/api/v1.
	BaseURL string
	Timeout time.Duration
}

// New creates a Provider. rnd and clock may be the real implementations from
// the feed package or deterministic stand-ins in tests.
func New(cfg Config, rnd feed.Rand, clock feed.Clock, logger *zap.Logger) *Provider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	baseline := make(map[string]float64, len(cfg.Symbols))
	for i, sym := range cfg.Symbols {
		baseline[sym] = seedBase + float64(i)*seedStep
	}

	if cfg.Token == "" {
		logger.Info("no quote API key configured, serving synthetic prices")
	}

	return &Provider{
		symbols:  cfg.Symbols,
		token:    cfg.Token,
		baseURL:  cfg.BaseURL,
		httpc:    &http.Client{Timeout: cfg.Timeout},
		rand:     rnd,
		clock:    clock,
		logger:   logger,
		baseline: baseline,
	}
}

// Snapshot returns one PriceRecord per configured symbol.
func (p *Provider) Snapshot(ctx context.Context) []models.PriceRecord {
	now := p.clock.Now()

	if p.token == "" {
		return p.fallbackSnapshot(now)
	}

	records := make([]models.PriceRecord, 0, len(p.symbols))
	for _, sym := range p.symbols {
		rec, err := p.fetchQuote(ctx, sym, now)
		if err != nil {
			p.logger.Warn("quote fetch failed, using fallback", zap.String("symbol", sym), zap.Error(err))
			rec = p.fallbackPrice(sym, now)
		}
		records = append(records, rec)
	}
	return records
}

// quoteResponse is finnhub's quote shape; c is the current price.
type quoteResponse struct {
	Current float64 `json:"c"`
}

func (p *Provider) fetchQuote(ctx context.Context, symbol string, now time.Time) (models.PriceRecord, error) {
	url := fmt.Sprintf("%s/quote?symbol=%s&token=%s", p.baseURL, symbol, p.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.PriceRecord{}, err
	}

	resp, err := p.httpc.Do(req)
	if err != nil {
		return models.PriceRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PriceRecord{}, fmt.Errorf("quote request for %s: status %d", symbol, resp.StatusCode)
	}

	var quote quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return models.PriceRecord{}, fmt.Errorf("decode quote for %s: %w", symbol, err)
	}
	if quote.Current <= 0 {
		return models.PriceRecord{}, fmt.Errorf("invalid price for %s: %f", symbol, quote.Current)
	}

	prev, ok := p.baseline[symbol]
	if !ok {
		prev = quote.Current
	}
	change := quote.Current - prev
	percent := 0.0
	if prev != 0 {
		percent = change / prev * 100
	}
	p.baseline[symbol] = quote.Current

	return models.PriceRecord{
		Symbol:        symbol,
		Price:         quote.Current,
		Change:        change,
		PercentChange: percent,
		TS:            now,
	}, nil
}

func (p *Provider) fallbackSnapshot(now time.Time) []models.PriceRecord {
	records := make([]models.PriceRecord, 0, len(p.symbols))
	for _, sym := range p.symbols {
		records = append(records, p.fallbackPrice(sym, now))
	}
	return records
}

// fallbackPrice walks the symbol's baseline one random step, clamped at 1.
func (p *Provider) fallbackPrice(symbol string, now time.Time) models.PriceRecord {
	prev, ok := p.baseline[symbol]
	if !ok {
		prev = seedBase
	}

	delta := (p.rand.Float64() - 0.5) * 4
	price := prev + delta
	if price < 1 {
		price = 1
	}

	change := price - prev
	percent := 0.0
	if prev != 0 {
		percent = change / prev * 100
	}
	p.baseline[symbol] = price

	return models.PriceRecord{
		Symbol:        symbol,
		Price:         price,
		Change:        change,
		PercentChange: percent,
		TS:            now,
	}
}
