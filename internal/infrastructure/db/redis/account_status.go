package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/99minutos/backoffice-api/internal/core/ports"
)

const defaultStatusTTL = 5 * time.Minute

// AccountStatusCache is a read-through cache of account activation flags in
// front of the user store. Key format: account:active:<user_id>
//
// Redis failures fall through to the source so a cache outage never blocks
// authentication.
type AccountStatusCache struct {
	client redis.Cmdable
	source ports.AccountStatusReader
	ttl    time.Duration
	log    zerolog.Logger
	loads  singleflight.Group
	// epoch advances on every Invalidate; a load that straddles one drops
	// what it just wrote.
	epoch atomic.Uint64
}

// NewAccountStatusCache wraps source with a Redis cache. A non-positive ttl uses 5 minutes.
func NewAccountStatusCache(client redis.Cmdable, source ports.AccountStatusReader, ttl time.Duration, log zerolog.Logger) *AccountStatusCache {
	if ttl <= 0 {
		ttl = defaultStatusTTL
	}
	return &AccountStatusCache{client: client, source: source, ttl: ttl, log: log}
}

// IsActive returns the cached flag or loads and caches it from the source.
func (c *AccountStatusCache) IsActive(ctx context.Context, userID int64) (bool, error) {
	key := c.key(userID)

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return val == "1", nil
	case !errors.Is(err, redis.Nil):
		c.log.Warn().Err(err).Int64("user_id", userID).Msg("account status cache read failed")
	}

	// Concurrent misses for the same user share one source read. The load is
	// detached from the first caller's cancellation since others wait on it.
	v, err, _ := c.loads.Do(key, func() (any, error) {
		lctx := context.WithoutCancel(ctx)
		start := c.epoch.Load()
		active, err := c.source.IsActive(lctx, userID)
		if err != nil {
			return false, err
		}
		flag := "0"
		if active {
			flag = "1"
		}
		if err := c.client.Set(lctx, key, flag, c.ttl).Err(); err != nil {
			c.log.Warn().Err(err).Int64("user_id", userID).Msg("account status cache write failed")
		}
		if c.epoch.Load() != start {
			if err := c.client.Del(lctx, key).Err(); err != nil {
				c.log.Warn().Err(err).Int64("user_id", userID).Msg("account status cache rollback failed")
			}
		}
		return active, nil
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// Invalidate drops the cached flag so the next read hits the source. A load
// already in flight still answers its callers but does not keep its write.
// Call it after the source has been updated.
func (c *AccountStatusCache) Invalidate(ctx context.Context, userID int64) error {
	key := c.key(userID)
	c.epoch.Add(1)
	c.loads.Forget(key)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate account status: %w", err)
	}
	return nil
}

func (c *AccountStatusCache) key(userID int64) string {
	return "account:active:" + strconv.FormatInt(userID, 10)
}

// Pinger reports Redis reachability for readiness checks.
type Pinger struct {
	client redis.Cmdable
}

func NewPinger(client redis.Cmdable) *Pinger {
	return &Pinger{client: client}
}

func (p *Pinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
