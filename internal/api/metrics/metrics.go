// Package metrics defines and registers all custom Prometheus metrics for the
// users API. It is the single source of truth for metric names, labels and
// help strings.
//
// Metrics register with the default Prometheus registry on package load and
// are served by promhttp at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "users"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthzDenialsTotal counts requests refused by the authorization policy.
// Label:
//   - operation: the guarded operation (e.g. "delete_user")
var AuthzDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_denials_total",
		Help:      "Total number of requests denied by the authorization policy.",
	},
	[]string{"operation"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// OperationsTotal counts user operations handled by the API.
// Labels:
//   - operation: e.g. "register", "update_user", "add_address"
//   - outcome: "ok" or the failure kind (e.g. "not_found", "bad_request")
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of user operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// CacheLookupsTotal counts user projection cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Total number of user cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// ── HTTP metrics ──────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts served HTTP requests.
// Labels:
//   - method: HTTP method
//   - route: the matched route template (e.g. "/users/:id")
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests from routing to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method", "route"},
)
