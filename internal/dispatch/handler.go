// Package dispatch routes incoming requests to the right page source.
//
// Context
// -------
// Every request lands here after the outer middleware chain.  The handler
// resolves the tenant from the host, probes the snapshot store for a
// pre-rendered page, and falls back to a live render guarded by the
// access gate.  Hosts that do not map to a tenant get the application
// shell.  A tenant host never falls back to the shell, even on error;
// errors surface as static error documents instead.
//
// Snapshot responses are immutable for an hour at the edge, so the
// Vary header must include Host or a shared proxy would hand one
// tenant's page to another.  Dynamic responses are never cacheable.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/vitrinemed/vitrine/internal/access"
	"github.com/vitrinemed/vitrine/internal/hostinfo"
	"github.com/vitrinemed/vitrine/internal/metrics"
	"github.com/vitrinemed/vitrine/internal/render"
	"github.com/vitrinemed/vitrine/internal/snapshot"
	"github.com/vitrinemed/vitrine/internal/tenant"
)

const (
	snapshotCacheControl = "public, max-age=3600, s-maxage=3600"
	dynamicCacheControl  = "no-cache, no-store, must-revalidate, max-age=0"
)

// RecordSource yields published tenant records, normally the in-process
// record cache backed by the anonymous pool.
type RecordSource interface {
	Get(ctx context.Context, subdomain string) (*tenant.Record, error)
}

// PrivilegedSource sees unpublished records too.  The dispatcher only
// consults it after the anonymous lookup misses, so draft pages can be
// gated instead of flatly 404ing for their owners.
type PrivilegedSource interface {
	BySubdomainPrivileged(ctx context.Context, subdomain string) (*tenant.Record, error)
}

// SnapshotSource is the pre-rendered page store.
type SnapshotSource interface {
	Get(ctx context.Context, subdomain string) (html string, ok bool, err error)
}

// Pinger reports backend liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Publisher regenerates a tenant's stored snapshot.
type Publisher interface {
	GenerateAndStore(ctx context.Context, tenantID string) (string, error)
}

// Dispatcher is the root HTTP handler.
type Dispatcher struct {
	rootDomain string
	records    RecordSource
	privileged PrivilegedSource
	snapshots  SnapshotSource
	checker    access.Checker
	renderCtx  render.Context
	shell      *Shell
	router     chi.Router

	// Optional collaborators, set after New.
	Pinger    Pinger
	Publisher Publisher
}

// New wires the dispatcher and its internal routes.
func New(rootDomain string, records RecordSource, privileged PrivilegedSource,
	snapshots SnapshotSource, checker access.Checker,
	renderCtx render.Context, shell *Shell) *Dispatcher {

	d := &Dispatcher{
		rootDomain: rootDomain,
		records:    records,
		privileged: privileged,
		snapshots:  snapshots,
		checker:    checker,
		renderCtx:  renderCtx,
		shell:      shell,
	}

	r := chi.NewRouter()
	r.Get("/healthz", d.healthz)
	r.Get("/api/access/check", d.accessCheck)
	r.Post("/api/snapshots/publish", d.publishSnapshot)
	r.NotFound(d.servePage)
	d.router = r
	return d
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.router.ServeHTTP(w, r)
}

func (d *Dispatcher) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", dynamicCacheControl)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if d.Pinger != nil {
		if err := d.Pinger.Ping(r.Context()); err != nil {
			zap.S().Errorw("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unreachable\n"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// publishSnapshot regenerates a tenant's stored page on demand.  Admin
// viewers only; the regular publish pipeline calls the publisher
// directly.
func (d *Dispatcher) publishSnapshot(w http.ResponseWriter, r *http.Request) {
	if d.Publisher == nil {
		http.Error(w, "publishing disabled", http.StatusNotImplemented)
		return
	}
	if !d.checker.Viewer(r).Admin {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	id := r.URL.Query().Get("tenant_id")
	if id == "" {
		http.Error(w, "missing tenant_id", http.StatusBadRequest)
		return
	}
	url, err := d.Publisher.GenerateAndStore(r.Context(), id)
	if err != nil {
		zap.S().Errorw("snapshot publish failed", "tenant_id", id, "error", err)
		http.Error(w, "publish failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(map[string]string{"url": url})
}

/*──────────────────────── page state machine ────────────────────────*/

func (d *Dispatcher) servePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	host := hostinfo.FromRequest(r)
	sub, ok := hostinfo.Subdomain(host, d.rootDomain)
	if !ok && r.URL.Path == "/" {
		// Bare path on a non-tenant host: a proxy may have rewritten
		// Host and left the tenant in a forwarded header.  Retry once
		// against it before giving up on resolution.
		if alt := hostinfo.SecondaryHost(r); alt != "" {
			sub, ok = hostinfo.Subdomain(alt, d.rootDomain)
		}
	}
	if !ok {
		// Apex, www, or a host we do not serve.  Hand over the shell.
		d.shell.Serve(w, r)
		return
	}

	// Snapshot first.  A fresh pre-rendered page short-circuits the
	// database entirely.
	if html, hit, err := d.snapshots.Get(r.Context(), sub); err != nil {
		metrics.SnapshotErrorTotal.Inc()
		zap.S().Warnw("snapshot probe failed", "subdomain", sub, "error", err)
	} else if hit {
		if snapshot.IsStale(html) {
			metrics.SnapshotStaleTotal.Inc()
		} else {
			metrics.SnapshotHitTotal.Inc()
			writeSnapshot(w, html)
			return
		}
	} else {
		metrics.SnapshotMissTotal.Inc()
	}

	d.serveDynamic(w, r, sub)
}

func (d *Dispatcher) serveDynamic(w http.ResponseWriter, r *http.Request, sub string) {
	ctx := r.Context()
	viewer := d.checker.Viewer(r)

	rec, err := d.lookup(ctx, r, sub)
	switch {
	case errors.Is(err, tenant.ErrNotFound):
		writeErrorPage(w, http.StatusNotFound, pageNotFound)
		return
	case err != nil:
		zap.S().Errorw("tenant lookup failed", "subdomain", sub, "error", err)
		writeErrorPage(w, http.StatusInternalServerError, pageServerError)
		return
	}

	deferred := false
	switch access.Evaluate(rec, viewer) {
	case access.Deny:
		metrics.AccessDeniedTotal.Inc()
		writeErrorPage(w, http.StatusForbidden, pagePrivate)
		return
	case access.Deferred:
		metrics.AccessDeferredTotal.Inc()
		deferred = true
	}

	rctx := d.renderCtx
	rctx.Deferred = deferred
	html, err := render.Render(rec, rctx)
	if err != nil {
		metrics.RenderErrorTotal.Inc()
		zap.S().Errorw("render failed", "subdomain", sub, "error", err)
		writeErrorPage(w, http.StatusInternalServerError, pageServerError)
		return
	}

	metrics.DynamicRenderTotal.Inc()
	writeDynamic(w, http.StatusOK, html)
}

// lookup tries the anonymous record cache, then the privileged pool so
// draft pages reach the access gate, then a secondary host retry for
// proxies that rewrite the primary Host on the bare path.
func (d *Dispatcher) lookup(ctx context.Context, r *http.Request, sub string) (*tenant.Record, error) {
	rec, err := d.records.Get(ctx, sub)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, tenant.ErrNotFound) {
		return nil, err
	}

	rec, perr := d.privileged.BySubdomainPrivileged(ctx, sub)
	if perr == nil {
		return rec, nil
	}
	if !errors.Is(perr, tenant.ErrNotFound) {
		return nil, perr
	}

	if r.URL.Path == "/" {
		if alt := hostinfo.SecondaryHost(r); alt != "" {
			if altSub, ok := hostinfo.Subdomain(alt, d.rootDomain); ok && altSub != sub {
				if rec, err := d.records.Get(ctx, altSub); err == nil {
					return rec, nil
				}
				if rec, err := d.privileged.BySubdomainPrivileged(ctx, altSub); err == nil {
					return rec, nil
				}
			}
		}
	}
	return nil, tenant.ErrNotFound
}

/*──────────────────────── access re-check API ───────────────────────*/

type accessCheckResponse struct {
	Allow bool `json:"allow"`
}

// accessCheck answers the deferred page's client probe.  It never leaks
// record contents, only whether the current viewer may see the page.
func (d *Dispatcher) accessCheck(w http.ResponseWriter, r *http.Request) {
	sub := r.URL.Query().Get("subdomain")
	if sub == "" {
		http.Error(w, "missing subdomain", http.StatusBadRequest)
		return
	}

	allow := false
	viewer := d.checker.Viewer(r)
	if viewer.Authenticated {
		rec, err := d.privileged.BySubdomainPrivileged(r.Context(), sub)
		if err == nil {
			allow = access.Evaluate(rec, viewer) == access.Allow
		} else if !errors.Is(err, tenant.ErrNotFound) {
			zap.S().Errorw("access check lookup failed", "subdomain", sub, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(accessCheckResponse{Allow: allow})
}

/*──────────────────────── response writers ──────────────────────────*/

func writeSnapshot(w http.ResponseWriter, html string) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", snapshotCacheControl)
	h.Set("Vary", "Host")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func writeDynamic(w http.ResponseWriter, status int, html string) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("Cache-Control", dynamicCacheControl)
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
