// Package cache keeps short-lived copies of ticket list results in Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wajir-county/ict-helpdesk/internal/domain"
	"github.com/wajir-county/ict-helpdesk/internal/repository"
)

const (
	versionKey = "tickets:list:version"
	keyPrefix  = "tickets:list:"
)

// TicketListCache stores list results under a generation number. Any ticket
// write bumps the generation, so stale entries are never read again and
// simply expire.
type TicketListCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewTicketListCache returns a cache. A nil client or non-positive ttl yields
// a cache that never hits.
func NewTicketListCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *TicketListCache {
	return &TicketListCache{client: client, ttl: ttl, logger: logger}
}

// Enabled reports whether lookups can hit.
func (c *TicketListCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

type listKey struct {
	Viewer repository.Viewer       `json:"viewer"`
	Filter repository.TicketFilter `json:"filter"`
}

func (c *TicketListCache) key(ctx context.Context, viewer repository.Viewer, filter repository.TicketFilter) (string, error) {
	version, err := c.client.Get(ctx, versionKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	raw, err := json.Marshal(listKey{Viewer: viewer, Filter: filter})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%s%d:%s", keyPrefix, version, hex.EncodeToString(sum[:])), nil
}

// Get returns a cached list. On a miss it also returns the key the result
// should be stored under, fixed to the generation seen here; the key is empty
// when the cache is unusable.
func (c *TicketListCache) Get(ctx context.Context, viewer repository.Viewer, filter repository.TicketFilter) ([]domain.Ticket, string, bool) {
	if !c.Enabled() {
		return nil, "", false
	}
	key, err := c.key(ctx, viewer, filter)
	if err != nil {
		c.logger.Warn("ticket list cache key failed", zap.Error(err))
		return nil, "", false
	}
	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("ticket list cache read failed", zap.Error(err))
		}
		return nil, key, false
	}
	var tickets []domain.Ticket
	if err := json.Unmarshal(payload, &tickets); err != nil {
		return nil, key, false
	}
	return tickets, key, true
}

// Set stores a list result under a key returned by Get. A write that bumped
// the generation in between leaves the entry where no lookup reaches it.
func (c *TicketListCache) Set(ctx context.Context, key string, tickets []domain.Ticket) {
	if !c.Enabled() || key == "" {
		return
	}
	payload, err := json.Marshal(tickets)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("ticket list cache write failed", zap.Error(err))
	}
}

// Invalidate starts a new generation.
func (c *TicketListCache) Invalidate(ctx context.Context) {
	if !c.Enabled() {
		return
	}
	if err := c.client.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warn("ticket list cache invalidation failed", zap.Error(err))
	}
}
