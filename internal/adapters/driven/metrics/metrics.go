package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.MetricsRecorder = (*Metrics)(nil)

// Metrics provides observability for extraction runs and deliveries.
type Metrics struct {
	// Finished runs by source kind and final stage
	Runs *prometheus.CounterVec

	// Unique addresses found by source kind
	Addresses *prometheus.CounterVec

	// Run duration by source kind
	RunLatency *prometheus.HistogramVec

	// Webhook deliveries by outcome
	Deliveries *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New creates a Metrics instance registered with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry creates a Metrics instance registered with reg and
// served from gatherer.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iptrace_runs_total",
			Help: "Total extraction runs by source kind and final stage",
		}, []string{"kind", "stage"}), // stage: "done", "dispatch", "extracting"

		Addresses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iptrace_addresses_total",
			Help: "Total unique addresses found by source kind",
		}, []string{"kind"}),

		RunLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "iptrace_run_duration_seconds",
			Help:    "Duration of extraction runs by source kind",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15, 30},
		}, []string{"kind"}),

		Deliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iptrace_deliveries_total",
			Help: "Total webhook deliveries by outcome",
		}, []string{"outcome"}),

		gatherer: gatherer,
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(kind domain.SourceKind, stage domain.Stage, addresses int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := kindLabel(kind)
	m.Runs.WithLabelValues(label, stage.String()).Inc()
	m.RunLatency.WithLabelValues(label).Observe(elapsed.Seconds())
	if addresses > 0 {
		m.Addresses.WithLabelValues(label).Add(float64(addresses))
	}
}

// ObserveDelivery records one webhook delivery.
func (m *Metrics) ObserveDelivery(outcome string) {
	if m != nil {
		m.Deliveries.WithLabelValues(outcome).Inc()
	}
}

// Handler serves the registered metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// kindLabel keeps label cardinality bounded when users pass arbitrary kinds.
func kindLabel(kind domain.SourceKind) string {
	if kind.IsValid() {
		return kind.String()
	}
	return "unknown"
}
