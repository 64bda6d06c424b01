package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tickwatch/tickwatch/pkg/models"
)

const defaultKey = "tickwatch:latest_prices"

// Cache stores the latest price snapshot as a single JSON blob with its
// write time. Redis is preferred when reachable; an in-memory copy is always
// kept as a fallback, so Redis outages degrade reads and writes instead of
// failing them.
type Cache struct {
	key    string
	rdb    *redis.Client
	logger *zap.Logger

	mu     sync.Mutex
	memory []byte
}

type blob struct {
	TS   int64                `json:"ts"` // unix milliseconds at write time
	Data []models.PriceRecord `json:"data"`
}

// New creates a Cache. rdb may be nil for a memory-only cache; an
// unreachable Redis is detected with a ping and likewise degraded to memory.
func New(ctx context.Context, rdb *redis.Client, logger *zap.Logger) *Cache {
	c := &Cache{key: defaultKey, logger: logger}

	if rdb == nil {
		logger.Info("price cache using in-memory backend")
		return c
	}

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, price cache using in-memory backend", zap.Error(err))
		return c
	}

	logger.Info("price cache using redis backend")
	c.rdb = rdb
	return c
}

// Backend reports which backend serves reads, "redis" or "memory".
func (c *Cache) Backend() string {
	if c.rdb != nil {
		return "redis"
	}
	return "memory"
}

// Save stores the snapshot, stamped with the current time.
func (c *Cache) Save(ctx context.Context, records []models.PriceRecord) {
	raw, err := json.Marshal(blob{TS: time.Now().UnixMilli(), Data: records})
	if err != nil {
		c.logger.Error("marshal price snapshot", zap.Error(err))
		return
	}

	c.mu.Lock()
	c.memory = raw
	c.mu.Unlock()

	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, c.key, raw, 0).Err(); err != nil {
		c.logger.Warn("redis write failed, keeping in-memory copy only", zap.Error(err))
	}
}

// Load returns the cached snapshot if it is no older than maxAge. The second
// return value is false on a miss or a stale entry.
func (c *Cache) Load(ctx context.Context, maxAge time.Duration) ([]models.PriceRecord, bool) {
	var raw []byte

	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, c.key).Bytes()
		switch {
		case err == redis.Nil:
		case err != nil:
			c.logger.Warn("redis read failed, falling back to memory", zap.Error(err))
		default:
			raw = val
		}
	}

	if raw == nil {
		c.mu.Lock()
		raw = c.memory
		c.mu.Unlock()
	}
	if raw == nil {
		return nil, false
	}

	var b blob
	if err := json.Unmarshal(raw, &b); err != nil {
		c.logger.Warn("ignoring unparseable cached snapshot", zap.Error(err))
		return nil, false
	}

	age := time.Since(time.UnixMilli(b.TS))
	if age > maxAge {
		return nil, false
	}
	return b.Data, true
}
