package operator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	reconciliationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcp_reconciliation_total",
			Help: "Total number of reconciliation attempts, partitioned by controller and outcome.",
		},
		[]string{"controller", "result"},
	)

	reconciliationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcp_reconciliation_duration_seconds",
			Help:    "Wall-clock duration of reconciliation attempts.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"controller"},
	)

	managedResources = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcp_managed_resources",
			Help: "Number of satellite resources currently aggregated per server, by kind.",
		},
		[]string{"kind", "server", "namespace"},
	)
)

func init() {
	// controller-runtime serves its own registry on the manager's metrics
	// endpoint; registering there rides the same /metrics listener.
	metrics.Registry.MustRegister(reconciliationTotal, reconciliationDuration, managedResources)
}

// observeReconciliation records the outcome and duration of one attempt.
func observeReconciliation(controller string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	reconciliationTotal.WithLabelValues(controller, result).Inc()
	reconciliationDuration.WithLabelValues(controller).Observe(time.Since(start).Seconds())
}

func recordManagedCounts(server, namespace string, matched *matchedSatellites) {
	managedResources.WithLabelValues("tool", server, namespace).Set(float64(len(matched.Tools)))
	managedResources.WithLabelValues("prompt", server, namespace).Set(float64(len(matched.Prompts)))
	managedResources.WithLabelValues("resource", server, namespace).Set(float64(len(matched.Resources)))
}
