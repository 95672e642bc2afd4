// Package metrics defines and registers all custom Prometheus metrics for the
// back-office API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation via promauto and exposed on /metrics by echoprometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "backoffice"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login outcomes.
// Labels:
//   - operation: "register" or "login"
//   - result: "success", "invalid_credentials", "deactivated", "duplicate_email", "error", …
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register/login attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// GateRejectionsTotal counts requests refused by an authorization gate.
// Labels:
//   - gate: "authentication", "role" or "ownership"
//   - reason: short error kind (e.g. "invalid_token", "ownership_mismatch")
var GateRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "gate_rejections_total",
		Help:      "Total number of requests rejected by an authorization gate.",
	},
	[]string{"gate", "reason"},
)

// ── Password hashing metrics ──────────────────────────────────────────────────

// PasswordHashDuration measures bcrypt work per call.
// Label:
//   - operation: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hash and verify operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// HashPoolQueueDepth tracks jobs waiting for a hashing worker.
var HashPoolQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "hash_pool_queue_depth",
		Help:      "Current number of password hashing jobs waiting for a worker.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ProjectsCreatedTotal counts newly created projects.
// Label:
//   - status: initial project status
var ProjectsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "projects_created_total",
		Help:      "Total number of projects created, by initial status.",
	},
	[]string{"status"},
)

// VendorsCreatedTotal counts newly created vendors.
var VendorsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "vendors_created_total",
		Help:      "Total number of vendors created.",
	},
)

// VendorSearchResults observes how many vendors matched a search before paging.
var VendorSearchResults = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "vendor_search_results",
		Help:      "Number of vendors matching a search, before pagination.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250},
	},
)
