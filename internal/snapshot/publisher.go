// internal/snapshot/publisher.go
//
// Publish-time snapshot generation.
//
// Context
// -------
// Snapshots are refreshed when a tenant transitions to published, never on
// the read path.  The external publish workflow calls GenerateAndStore
// with the tenant id; this renders the document through the same pure
// renderer the dispatcher uses, upserts it into the store, drops the
// cached record so the next dynamic render sees the new status, and
// returns the public URL for the workflow to surface.
//
// Two concurrent publishes of the same tenant race and the store keeps
// whichever write completes last.  Publishing is a rare, owner-initiated
// action, so this is accepted rather than locked.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vitrinemed/vitrine/internal/metrics"
	"github.com/vitrinemed/vitrine/internal/render"
	"github.com/vitrinemed/vitrine/internal/tenant"
)

// RecordSource is the slice of the repository the publisher needs.
type RecordSource interface {
	ByIDPrivileged(ctx context.Context, id string) (*tenant.Record, error)
}

// Invalidator drops a cached tenant record after publish.
type Invalidator interface {
	Invalidate(subdomain string)
}

// Publisher renders and stores snapshots at publish time.
type Publisher struct {
	source    RecordSource
	store     *Store
	cache     Invalidator
	renderCtx render.Context
}

// NewPublisher wires the publisher.  renderCtx must be the same base
// context the dispatcher renders with, minus per-request fields.
func NewPublisher(source RecordSource, store *Store, cache Invalidator, renderCtx render.Context) *Publisher {
	return &Publisher{source: source, store: store, cache: cache, renderCtx: renderCtx}
}

// GenerateAndStore renders the tenant's public document and upserts it as
// the snapshot, returning the snapshot's public URL.
func (p *Publisher) GenerateAndStore(ctx context.Context, tenantID string) (string, error) {
	rec, err := p.source.ByIDPrivileged(ctx, tenantID)
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", tenantID, err)
	}

	rctx := p.renderCtx
	rctx.Deferred = false
	rctx.Year = time.Now().UTC().Year()

	html, err := render.Render(rec, rctx)
	if err != nil {
		return "", fmt.Errorf("publish %s: render: %w", tenantID, err)
	}

	if err := p.store.Put(ctx, rec.Subdomain, html); err != nil {
		return "", fmt.Errorf("publish %s: %w", tenantID, err)
	}

	if p.cache != nil {
		p.cache.Invalidate(rec.Subdomain)
	}

	metrics.SnapshotPublishTotal.Inc()
	zap.S().Infow("snapshot published",
		"tenant_id", tenantID,
		"subdomain", rec.Subdomain,
		"bytes", len(html),
	)
	return p.store.PublicURL(rec.Subdomain), nil
}
