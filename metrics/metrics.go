// Package metrics exposes the Prometheus collectors the loader optionally
// records observations into. A nil *Collectors disables collection, the
// same zero-cost-when-absent shape as an optional progress sink.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors groups every metric the loader emits. MustRegister registers them
// all against a given registerer (typically prometheus.DefaultRegisterer).
type Collectors struct {
	BatchesTotal          *prometheus.CounterVec
	RecordsCreatedTotal   *prometheus.CounterVec
	LoadDurationSeconds   prometheus.Histogram
	ValidationErrorsTotal prometheus.Counter
	LoadsInFlight         prometheus.Gauge
}

// NewCollectors builds a fresh, unregistered set of collectors.
func NewCollectors() *Collectors {
	return &Collectors{
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agebulk_batches_total",
			Help: "Number of batches executed, by kind (vertex/edge) and label.",
		}, []string{"kind", "label"}),
		RecordsCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agebulk_records_created_total",
			Help: "Number of vertices/edges actually created, by kind and label.",
		}, []string{"kind", "label"}),
		LoadDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agebulk_load_duration_seconds",
			Help:    "Duration of a single Load call.",
			Buckets: prometheus.DefBuckets,
		}),
		ValidationErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agebulk_validation_errors_total",
			Help: "Number of payload validation errors observed across all loads.",
		}),
		LoadsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agebulk_loads_in_flight",
			Help: "Number of Load calls currently in progress.",
		}),
	}
}

// MustRegister registers every collector against reg.
func (c *Collectors) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		c.BatchesTotal,
		c.RecordsCreatedTotal,
		c.LoadDurationSeconds,
		c.ValidationErrorsTotal,
		c.LoadsInFlight,
	)
}

// observeBatch records one executed batch of kind ("vertex"/"edge") and
// label, plus the number of records actually created.
func (c *Collectors) observeBatch(kind, label string, created int) {
	if c == nil {
		return
	}
	c.BatchesTotal.WithLabelValues(kind, label).Inc()
	c.RecordsCreatedTotal.WithLabelValues(kind, label).Add(float64(created))
}

// ObserveVertexBatch records one executed vertex batch.
func (c *Collectors) ObserveVertexBatch(label string, created int) {
	c.observeBatch("vertex", label, created)
}

// ObserveEdgeBatch records one executed edge batch.
func (c *Collectors) ObserveEdgeBatch(label string, created int) {
	c.observeBatch("edge", label, created)
}

// ObserveLoadDuration records the wall-clock duration of a completed Load.
func (c *Collectors) ObserveLoadDuration(seconds float64) {
	if c == nil {
		return
	}
	c.LoadDurationSeconds.Observe(seconds)
}

// AddValidationErrors increments the validation-error counter by n.
func (c *Collectors) AddValidationErrors(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.ValidationErrorsTotal.Add(float64(n))
}

// IncLoadsInFlight/DecLoadsInFlight bracket one Load call.
func (c *Collectors) IncLoadsInFlight() {
	if c == nil {
		return
	}
	c.LoadsInFlight.Inc()
}

func (c *Collectors) DecLoadsInFlight() {
	if c == nil {
		return
	}
	c.LoadsInFlight.Dec()
}
