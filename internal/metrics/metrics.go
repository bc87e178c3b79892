// Package metrics provides Prometheus instrumentation for the catalog service.
//
// Exposed at GET /metrics:
//
//	kinoteka_http_requests_total            counter: requests by method/route/status
//	kinoteka_http_request_duration_seconds  histogram: latency by method/route
//	kinoteka_progress_checkpoints_total     counter: progress checkpoints by outcome
//	kinoteka_bookmark_toggles_total         counter: bookmark toggles by state/result
//	kinoteka_role_changes_total             counter: role-management calls by result kind
//	kinoteka_catalog_writes_total           counter: catalog writes by operation/kind
//	kinoteka_cache_lookups_total            counter: catalog cache hits/misses
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kinoteka_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "kinoteka_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// ProgressCheckpoints counts checkpoint decisions: persisted, skipped, failed.
var ProgressCheckpoints = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kinoteka_progress_checkpoints_total",
	Help: "Watch progress checkpoints by outcome.",
}, []string{"outcome"})

var BookmarkToggles = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kinoteka_bookmark_toggles_total",
	Help: "Bookmark toggles by requested state and result.",
}, []string{"state", "result"})

var RoleChanges = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kinoteka_role_changes_total",
	Help: "Role management calls by function and result kind.",
}, []string{"function", "result"})

var CatalogWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kinoteka_catalog_writes_total",
	Help: "Catalog writes by operation and title kind.",
}, []string{"operation", "kind"})

var CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kinoteka_cache_lookups_total",
	Help: "Catalog cache lookups by result.",
}, []string{"result"})

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
