// Package cache holds the in-process account status cache used when no Redis
// instance is configured.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const (
	defaultSize = 4096
	defaultTTL  = 5 * time.Minute
)

// AccountStatusLRU caches activation flags per process with a bounded size.
// Invalidation is local, so a deactivation on another replica is seen after ttl.
type AccountStatusLRU struct {
	entries *expirable.LRU[int64, bool]
	source  ports.AccountStatusReader
	epoch   atomic.Uint64
}

// NewAccountStatusLRU wraps source with an expiring LRU of size entries.
func NewAccountStatusLRU(source ports.AccountStatusReader, size int, ttl time.Duration) *AccountStatusLRU {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &AccountStatusLRU{
		entries: expirable.NewLRU[int64, bool](size, nil, ttl),
		source:  source,
	}
}

func (c *AccountStatusLRU) IsActive(ctx context.Context, userID int64) (bool, error) {
	if active, ok := c.entries.Get(userID); ok {
		return active, nil
	}
	start := c.epoch.Load()
	active, err := c.source.IsActive(ctx, userID)
	if err != nil {
		return false, err
	}
	c.entries.Add(userID, active)
	// An Invalidate raced with the read; the flag may be stale.
	if c.epoch.Load() != start {
		c.entries.Remove(userID)
	}
	return active, nil
}

func (c *AccountStatusLRU) Invalidate(_ context.Context, userID int64) error {
	c.epoch.Add(1)
	c.entries.Remove(userID)
	return nil
}
