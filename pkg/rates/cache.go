package rates

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/dtnitsch/money-is-time/models"
)

// DefaultTTL is how long a snapshot is served before it is refreshed.
const DefaultTTL = 24 * time.Hour

const defaultCacheSize = 64

// Cache memoizes Provider results per base currency in a bounded LRU. Concurrent requests for
// a base whose snapshot is missing or stale share a single provider call.
// Failures are cached as empty snapshots so callers fail soft without
// hammering the provider.
type Cache struct {
	provider   Provider
	logger     *slog.Logger
	ttl        time.Duration
	failureTTL time.Duration
	now        func() time.Time

	snapshots *lru.Cache[string, models.RateSnapshot]
	group     singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the snapshot lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithFailureTTL sets how long a failed fetch is remembered. Zero means the
// regular TTL.
func WithFailureTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.failureTTL = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithSize bounds the number of base currencies kept.
func WithSize(size int) Option {
	return func(c *Cache) {
		if size > 0 {
			c.snapshots, _ = lru.New[string, models.RateSnapshot](size)
		}
	}
}

// NewCache creates a Cache in front of provider.
func NewCache(provider Provider, logger *slog.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	snapshots, _ := lru.New[string, models.RateSnapshot](defaultCacheSize)
	c := &Cache{
		provider:  provider,
		logger:    logger,
		ttl:       DefaultTTL,
		now:       time.Now,
		snapshots: snapshots,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.failureTTL <= 0 {
		c.failureTTL = c.ttl
	}
	return c
}

// Get returns the rates for base, fetching them at most once per refresh
// cycle. The returned map must not be modified. A failed fetch yields an
// empty map.
func (c *Cache) Get(ctx context.Context, base string) map[string]float64 {
	return c.Snapshot(ctx, base).Rates
}

// Snapshot is Get with the snapshot metadata.
func (c *Cache) Snapshot(ctx context.Context, base string) models.RateSnapshot {
	base = strings.ToUpper(base)

	if snap, ok := c.fresh(base); ok {
		return snap
	}

	v, _, shared := c.group.Do(base, func() (any, error) {
		// A caller that queued behind a finished flight finds the new snapshot.
		if snap, ok := c.fresh(base); ok {
			return snap, nil
		}
		return c.fetch(context.WithoutCancel(ctx), base), nil
	})
	if shared {
		c.logger.Debug("Joined in-flight rate fetch", "base", base)
	}
	return v.(models.RateSnapshot)
}

// Rate returns the multiplier converting an amount in from into to. The
// direct table for from is tried first, then the inverse of the table for to.
func (c *Cache) Rate(ctx context.Context, from, to string) (float64, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return 1, nil
	}

	if r, ok := c.Get(ctx, from)[to]; ok && r > 0 {
		return r, nil
	}
	if r, ok := c.Get(ctx, to)[from]; ok && r > 0 {
		return 1 / r, nil
	}
	return 0, fmt.Errorf("%w: %s to %s", ErrRateUnavailable, from, to)
}

// Invalidate drops the snapshot for base.
func (c *Cache) Invalidate(base string) {
	c.snapshots.Remove(strings.ToUpper(base))
}

func (c *Cache) fresh(base string) (models.RateSnapshot, bool) {
	snap, ok := c.snapshots.Get(base)
	if !ok {
		return models.RateSnapshot{}, false
	}
	ttl := c.ttl
	if snap.Failed {
		ttl = c.failureTTL
	}
	if !snap.Fresh(c.now(), ttl) {
		return models.RateSnapshot{}, false
	}
	return snap, true
}

func (c *Cache) fetch(ctx context.Context, base string) models.RateSnapshot {
	c.logger.Info("Fetching exchange rates", "base", base)

	snap := models.RateSnapshot{Base: base, FetchedAt: c.now()}
	var (
		rates     map[string]float64
		fetchedAt time.Time
		err       error
	)
	if sp, ok := c.provider.(SnapshotProvider); ok {
		var stored models.RateSnapshot
		stored, err = sp.FetchSnapshot(ctx, base)
		rates, fetchedAt = stored.Rates, stored.FetchedAt
	} else {
		rates, err = c.provider.Rates(ctx, base)
	}

	if err != nil || len(rates) == 0 {
		c.logger.Warn("Failed to retrieve rates", "base", base, "error", err)
		snap.Rates = map[string]float64{}
		snap.Failed = true
	} else {
		snap.Rates = rates
		// never later than now, so a skewed store cannot extend the TTL
		if !fetchedAt.IsZero() && fetchedAt.Before(snap.FetchedAt) {
			snap.FetchedAt = fetchedAt
		}
	}

	c.snapshots.Add(base, snap)
	return snap
}
