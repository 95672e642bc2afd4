package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// fakeRedis implements the few commands the cache uses over a map.
// Any other Cmdable method panics via the nil embedded interface.
type fakeRedis struct {
	redis.Cmdable
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	readErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return redis.NewStringResult("", f.readErr)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value.(string)
	f.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

type countingSource struct {
	mu     sync.Mutex
	active map[int64]bool
	calls  int
	err    error
}

func (s *countingSource) IsActive(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.active[id], nil
}

func TestAccountStatusCache_ReadThrough(t *testing.T) {
	rdb := newFakeRedis()
	src := &countingSource{active: map[int64]bool{1: true, 2: false}}
	c := NewAccountStatusCache(rdb, src, time.Minute, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := c.IsActive(ctx, 1)
		if err != nil || !ok {
			t.Fatalf("IsActive(1) = %v, %v", ok, err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected 1 source read, got %d", src.calls)
	}
	if rdb.data["account:active:1"] != "1" || rdb.ttls["account:active:1"] != time.Minute {
		t.Fatalf("unexpected cache entry: %q ttl %v", rdb.data["account:active:1"], rdb.ttls["account:active:1"])
	}

	ok, err := c.IsActive(ctx, 2)
	if err != nil || ok {
		t.Fatalf("IsActive(2) = %v, %v; want false", ok, err)
	}
	if rdb.data["account:active:2"] != "0" {
		t.Fatalf("inactive flag not cached")
	}
}

func TestAccountStatusCache_Invalidate(t *testing.T) {
	rdb := newFakeRedis()
	src := &countingSource{active: map[int64]bool{1: true}}
	c := NewAccountStatusCache(rdb, src, time.Minute, zerolog.Nop())
	ctx := context.Background()

	if _, err := c.IsActive(ctx, 1); err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	src.active[1] = false
	if err := c.Invalidate(ctx, 1); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	ok, err := c.IsActive(ctx, 1)
	if err != nil || ok {
		t.Fatalf("expected fresh inactive flag after invalidation, got %v, %v", ok, err)
	}
	if src.calls != 2 {
		t.Fatalf("expected 2 source reads, got %d", src.calls)
	}
}

func TestAccountStatusCache_RedisDownFallsThrough(t *testing.T) {
	rdb := newFakeRedis()
	rdb.readErr = errors.New("connection refused")
	src := &countingSource{active: map[int64]bool{1: true}}
	c := NewAccountStatusCache(rdb, src, 0, zerolog.Nop())

	ok, err := c.IsActive(context.Background(), 1)
	if err != nil || !ok {
		t.Fatalf("IsActive = %v, %v; want true from source", ok, err)
	}
}

func TestAccountStatusCache_SourceErrorNotCached(t *testing.T) {
	rdb := newFakeRedis()
	boom := errors.New("store unavailable")
	src := &countingSource{err: boom}
	c := NewAccountStatusCache(rdb, src, time.Minute, zerolog.Nop())

	if _, err := c.IsActive(context.Background(), 1); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if _, ok := rdb.data["account:active:1"]; ok {
		t.Fatalf("source error must not be cached")
	}
}

// flippingSource deactivates the user while the first load is in flight.
type flippingSource struct {
	active   bool
	calls    int
	duringRd func()
}

func (s *flippingSource) IsActive(ctx context.Context, _ int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.calls++
	was := s.active
	if s.calls == 1 && s.duringRd != nil {
		s.duringRd()
	}
	return was, nil
}

func TestAccountStatusCache_InvalidateDuringLoadDropsStaleWrite(t *testing.T) {
	rdb := newFakeRedis()
	src := &flippingSource{active: true}
	c := NewAccountStatusCache(rdb, src, time.Minute, zerolog.Nop())
	ctx := context.Background()
	src.duringRd = func() {
		src.active = false
		if err := c.Invalidate(ctx, 1); err != nil {
			t.Errorf("Invalidate: %v", err)
		}
	}

	if _, err := c.IsActive(ctx, 1); err != nil {
		t.Fatalf("IsActive: %v", err)
	}
	if v, ok := rdb.data["account:active:1"]; ok {
		t.Fatalf("stale flag %q survived invalidation", v)
	}

	ok, err := c.IsActive(ctx, 1)
	if err != nil || ok {
		t.Fatalf("IsActive after invalidation = %v, %v; want false", ok, err)
	}
	if rdb.data["account:active:1"] != "0" {
		t.Fatalf("fresh flag not cached: %q", rdb.data["account:active:1"])
	}
}

func TestAccountStatusCache_LoadIgnoresCallerCancellation(t *testing.T) {
	rdb := newFakeRedis()
	src := &flippingSource{active: true}
	c := NewAccountStatusCache(rdb, src, time.Minute, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := c.IsActive(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("IsActive = %v, %v; want true", ok, err)
	}
	if rdb.data["account:active:1"] != "1" {
		t.Fatalf("flag not cached for waiters: %q", rdb.data["account:active:1"])
	}
}
