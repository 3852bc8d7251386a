// Package metrics holds Prometheus instruments that are used across the
// platform.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenant_records",
			Help: "Number of tenant records currently cached in memory.",
		})

	TenantLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_total",
			Help: "Cumulative number of tenant records successfully loaded.",
		})

	TenantLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_errors_total",
			Help: "Cumulative number of tenant record load errors.",
		})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of tenant records evicted from the cache.",
		})

	SnapshotHitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_hit_total",
			Help: "Requests served straight from a fresh snapshot.",
		})

	SnapshotMissTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_miss_total",
			Help: "Snapshot lookups that found no object.",
		})

	SnapshotStaleTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_stale_total",
			Help: "Snapshots rejected by the bundle-marker freshness check.",
		})

	SnapshotErrorTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_error_total",
			Help: "Object-store failures treated as snapshot misses.",
		})

	SnapshotPublishTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "snapshot_publish_total",
			Help: "Snapshots generated and stored at publish time.",
		})

	DynamicRenderTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dynamic_render_total",
			Help: "Documents rendered on demand.",
		})

	RenderErrorTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "render_error_total",
			Help: "Dynamic renders that failed and returned the error document.",
		})

	AccessDeferredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "access_deferred_total",
			Help: "Unpublished pages served hidden pending a client-side re-check.",
		})

	AccessDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "access_denied_total",
			Help: "Unpublished pages denied to identified non-owners.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveTenants,
		TenantLoadTotal,
		TenantLoadErrorsTotal,
		TenantEvictTotal,
		SnapshotHitTotal,
		SnapshotMissTotal,
		SnapshotStaleTotal,
		SnapshotErrorTotal,
		SnapshotPublishTotal,
		DynamicRenderTotal,
		RenderErrorTotal,
		AccessDeferredTotal,
		AccessDeniedTotal,
	)
}
