// Package metrics defines and registers all custom Prometheus metrics for the
// NightFlow core service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto at
// package init, before the HTTP server starts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "nightflow"

// ── Dashboard metrics ─────────────────────────────────────────────────────────

// ReconciliationsTotal counts full snapshot reconciliations against the ledger.
// Label:
//   - result: "applied" (snapshot replaced), "stale" (superseded by a newer
//     reconciliation and dropped), or "error" (a backing query failed)
var ReconciliationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "reconciliations_total",
		Help:      "Total number of snapshot reconciliations, by result.",
	},
	[]string{"result"},
)

// FeedEventsTotal counts live feed events applied to the dashboard snapshot.
// Label:
//   - event: "sale_inserted" or "reservation_updated"
var FeedEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_events_total",
		Help:      "Total number of live feed events applied, by event type.",
	},
	[]string{"event"},
)

// SalesCommittedTotal counts sales written to the ledger.
// Labels:
//   - type: "DIRECT" or "UPSELL"
//   - result: "ok" or "error"
var SalesCommittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_committed_total",
		Help:      "Total number of sales committed to the ledger, by type and result.",
	},
	[]string{"type", "result"},
)

// ── Chat metrics ──────────────────────────────────────────────────────────────

// ChatRequestsTotal counts user messages accepted by the upsell chat.
var ChatRequestsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Total number of chat messages accepted for completion.",
	},
)

// ChatCompletionDuration measures how long a single completion round trip takes.
// Label:
//   - result: "ok" or "error"
var ChatCompletionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "chat_completion_duration_seconds",
		Help:      "Duration of upsell chat completion requests.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"result"},
)
