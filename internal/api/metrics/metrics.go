// Package metrics defines and registers the custom Prometheus metrics of the
// CityFix services. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at package init;
// HTTP request metrics are added per server by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "cityfix"

// ── Gateway metrics ───────────────────────────────────────────────────────────

// ProxiedRequestsTotal counts requests forwarded by the gateway.
// Labels:
//   - service: backend name (e.g. "ticket")
//   - code: status returned to the client, including gateway-generated 502/504
var ProxiedRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "proxied_requests_total",
		Help:      "Total number of requests forwarded to backend services.",
	},
	[]string{"service", "code"},
)

// UpstreamDuration measures the round trip to a backend, body included.
var UpstreamDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "upstream_duration_seconds",
		Help:      "Duration of backend calls made by the gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"service"},
)

// BackendUp is 1 when the last health probe of a backend succeeded, else 0.
var BackendUp = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "gateway",
		Name:      "backend_up",
		Help:      "Result of the last aggregate health probe per backend service.",
	},
	[]string{"service"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationEventsTotal counts dispatcher outcomes.
// Label:
//   - result: "published", "failed" or "dropped"
var NotificationEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "events_total",
		Help:      "Total number of notification events handled by the dispatcher, by result.",
	},
	[]string{"result"},
)

// NotificationQueueDepth tracks pending events per dispatcher worker.
var NotificationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "notification",
		Name:      "queue_depth",
		Help:      "Current number of notification events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts login outcomes.
// Label:
//   - result: "success", "failure" or "throttled"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "auth",
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)
