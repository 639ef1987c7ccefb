// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the liquidator.
type Metrics struct {
	// Ingestion metrics
	UpdatesProcessed *prometheus.CounterVec
	UpdateErrors     *prometheus.CounterVec
	UpdateQueueDepth prometheus.Gauge

	// Cache metrics
	CacheEntries *prometheus.GaugeVec
	ClockSlot    prometheus.Gauge

	// Scheduler metrics
	ScanCycles            prometheus.Counter
	CandidatesScanned     prometheus.Counter
	LiquidationsPrepared  prometheus.Counter
	LiquidationsSucceeded prometheus.Counter
	LiquidationsFailed    prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_liquidator"
	}

	return &Metrics{
		UpdatesProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "updates_processed_total",
			Help:      "Total number of account updates applied to the cache",
		}, []string{"kind"}),
		UpdateErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "update_errors_total",
			Help:      "Total number of account updates that failed to decode or apply",
		}, []string{"kind"}),
		UpdateQueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "update_queue_depth",
			Help:      "Number of buffered account updates awaiting processing",
		}),

		CacheEntries: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Number of cached entries by entity kind",
		}, []string{"kind"}),
		ClockSlot: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "clock_slot",
			Help:      "Slot of the cached chain clock",
		}),

		ScanCycles: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "scan_cycles_total",
			Help:      "Total number of completed liquidation scan cycles",
		}),
		CandidatesScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "candidates_scanned_total",
			Help:      "Total number of accounts visited by the scan loop",
		}),
		LiquidationsPrepared: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "liquidations_prepared_total",
			Help:      "Total number of accounts that evaluated as liquidatable",
		}),
		LiquidationsSucceeded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "liquidations_succeeded_total",
			Help:      "Total number of liquidations executed successfully",
		}),
		LiquidationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "liquidations_failed_total",
			Help:      "Total number of liquidation executions that failed",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
