// Package metrics exposes the Prometheus metrics of the pager.
// Collectors are defined in the packages that update them (client, pager)
// and registered through promauto on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all pager collectors are registered with.
var Registry = prometheus.DefaultRegisterer

// Handler serves every registered collector in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - artist_requests_total{status} (Counter): page requests by HTTP status or "network_error"
//   - artist_request_duration_seconds (Histogram): page request duration
//   - artist_errors_total{class} (Counter): failures by class (network, client, server, status, malformed)
//
// Load Cycle Metrics (pkg/pager):
//   - artist_pages_loaded_total (Counter): non-empty pages appended
//   - artist_items_appended_total (Counter): fragments appended
//   - artist_load_failures_total{class} (Counter): failed cycles by class (request classes plus "render")
//   - artist_triggers_ignored_total{reason} (Counter): triggers dropped ("in_flight", "exhausted")
//   - artist_lists_exhausted_total (Counter): controllers that reached the final page
//
// Example Prometheus Queries:
//
//   # Failed load ratio
//   sum(rate(artist_load_failures_total[5m])) /
//   (sum(rate(artist_load_failures_total[5m])) + rate(artist_pages_loaded_total[5m]))
//
//   # Double clicks swallowed by the in-flight guard
//   rate(artist_triggers_ignored_total{reason="in_flight"}[5m])
//
//   # P95 page latency
//   histogram_quantile(0.95, rate(artist_request_duration_seconds_bucket[5m]))
