// internal/tenant/repository.go
//
// Tenant-table query helpers.
//
// Context
// -------
// Read-only facade over the `tenant` table.  Two connection pools back it:
//
//   - `anon`    — connects as the anon role, whose row-level-security
//     policy exposes only status = 'published' rows.  Used for ordinary
//     public reads.
//   - `service` — connects as the service role, which bypasses the policy.
//     Used only by callers that have already made their own access
//     decision: the dispatcher after running the gate, and the snapshot
//     publisher.
//
// The anon query repeats the status filter in SQL anyway, so a
// misconfigured policy degrades to the same behaviour instead of leaking
// draft rows.
//
// Workflow
// --------
//  1. Callers supply a context so lookups respect request deadlines.
//  2. Each helper executes exactly one parameterised SELECT.
//  3. Rows scan into tenant.Record; JSONB columns go through the model's
//     Scan wrappers.
//  4. sql.ErrNoRows maps to ErrNotFound; other errors return verbatim for
//     the caller to wrap or log.
//
// Notes
// -----
//   - Column list matches Record's db tags; update both together.
//   - Oxford commas, two spaces after periods.
package tenant

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no visible row matches the key.
var ErrNotFound = errors.New("tenant not found")

const recordColumns = `
        id, subdomain, custom_domain, owner_id, status,
        briefing_data, content_data, design_settings, section_visibility,
        layout_variant, photo_url, about_photo_url,
        meta_title, meta_description, meta_keywords, og_image_url,
        view_count, last_viewed_at, created_at, updated_at`

// Repository bundles the anon and service pools.
type Repository struct {
	anon    *sqlx.DB
	service *sqlx.DB
}

// NewRepository wires both pools.  The service pool may equal the anon
// pool in development setups without RLS; production must separate them.
func NewRepository(anon, service *sqlx.DB) *Repository {
	return &Repository{anon: anon, service: service}
}

// BySubdomain fetches a published tenant through the anon pool.  Draft and
// archived rows are invisible here by policy and by the explicit filter.
func (r *Repository) BySubdomain(ctx context.Context, subdomain string) (*Record, error) {
	const q = `
        SELECT` + recordColumns + `
        FROM   tenant
        WHERE  subdomain = $1
          AND  status    = 'published'
        LIMIT  1`
	var rec Record
	if err := r.anon.GetContext(ctx, &rec, q, subdomain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// BySubdomainPrivileged fetches a tenant in any lifecycle state through the
// service pool.  Callers must have enforced access control first.
func (r *Repository) BySubdomainPrivileged(ctx context.Context, subdomain string) (*Record, error) {
	const q = `
        SELECT` + recordColumns + `
        FROM   tenant
        WHERE  subdomain = $1
        LIMIT  1`
	var rec Record
	if err := r.service.GetContext(ctx, &rec, q, subdomain); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// ByIDPrivileged fetches a tenant by primary key through the service pool.
// Used by the snapshot publisher, which is invoked with a tenant id by the
// external publish workflow.
func (r *Repository) ByIDPrivileged(ctx context.Context, id string) (*Record, error) {
	const q = `
        SELECT` + recordColumns + `
        FROM   tenant
        WHERE  id = $1
        LIMIT  1`
	var rec Record
	if err := r.service.GetContext(ctx, &rec, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Ping verifies both pools; used by the health endpoint.
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.anon.PingContext(ctx); err != nil {
		return err
	}
	return r.service.PingContext(ctx)
}
