// internal/tenant/cache.go
//
// Singleflight-guarded tenant record cache.
//
// Context
// -------
// The dispatcher asks for the same handful of records on every request of a
// hot tenant.  The cache keeps recently fetched rows in a sync.Map, guards
// cold loads with singleflight so a traffic spike on one subdomain issues a
// single query, and re-fetches rows older than a short TTL so editor
// changes surface quickly.  Records load through the anonymous repository
// path, so only published rows ever enter the cache; unpublished pages go
// through the privileged lookup in the dispatcher, where the access gate
// decides what the viewer may see.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package tenant

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vitrinemed/vitrine/internal/metrics"
)

// Static defaults.  Override via config if desired.
const (
	RecordTTL     = 30 * time.Second
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 1000
	EvictInterval = 5 * time.Minute
)

// Cache lazily loads records, stores them in a sync.Map, and evicts them on
// idle TTL or LRU pressure.
type Cache struct {
	repo        *Repository
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	recordTTL   time.Duration
	idleTTL     time.Duration
	maxEntries  int
}

type entry struct {
	record   *Record
	loadedAt int64 // UnixNano; staleness against recordTTL
	lastSeen int64 // UnixNano; idle eviction
}

// NewCache constructs a Cache and starts the background evictor.
func NewCache(repo *Repository, recordTTL, idleTTL time.Duration, maxEntries int) *Cache {
	c := &Cache{
		repo:       repo,
		recordTTL:  recordTTL,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	c.evictTicker = time.NewTicker(EvictInterval)
	go c.evictLoop()
	return c
}

// Get returns the published Record for subdomain, loading it on demand.
// ErrNotFound covers both missing and unpublished rows; callers that need
// to distinguish use the privileged repository path.
func (c *Cache) Get(ctx context.Context, subdomain string) (*Record, error) {
	now := time.Now().UnixNano()
	if v, ok := c.m.Load(subdomain); ok {
		ent := v.(*entry)
		if time.Duration(now-atomic.LoadInt64(&ent.loadedAt)) < c.recordTTL {
			atomic.StoreInt64(&ent.lastSeen, now)
			return ent.record, nil
		}
		// Stale: fall through and re-fetch under singleflight.
	}

	v, err, _ := c.sfg.Do(subdomain, func() (interface{}, error) {
		// Double-check after the singleflight barrier.
		if v, ok := c.m.Load(subdomain); ok {
			ent := v.(*entry)
			if time.Duration(time.Now().UnixNano()-atomic.LoadInt64(&ent.loadedAt)) < c.recordTTL {
				return ent.record, nil
			}
		}
		rec, err := c.repo.BySubdomain(ctx, subdomain)
		if err != nil {
			metrics.TenantLoadErrorsTotal.Inc()
			return nil, err
		}
		fresh := time.Now().UnixNano()
		if _, existed := c.m.Swap(subdomain, &entry{
			record:   rec,
			loadedAt: fresh,
			lastSeen: fresh,
		}); !existed {
			metrics.ActiveTenants.Inc()
		}
		metrics.TenantLoadTotal.Inc()
		return rec, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Record), nil
}

// Invalidate drops a cached record; the publisher calls it after a publish
// so the next dynamic render sees the new status immediately.
func (c *Cache) Invalidate(subdomain string) {
	if _, ok := c.m.LoadAndDelete(subdomain); ok {
		metrics.ActiveTenants.Dec()
	}
}
