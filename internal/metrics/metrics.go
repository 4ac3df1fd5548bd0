package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ChicagoDave/phppkit/pkg/validation"
	"github.com/ChicagoDave/phppkit/pkg/workbook"
)

// Collector bundles Prometheus metrics for takeoff runs and the HTTP API.
type Collector struct {
	gatherer prometheus.Gatherer

	Runs         *prometheus.CounterVec
	RunDurations prometheus.Histogram
	Diagnostics  *prometheus.CounterVec
	CellWrites   *prometheus.CounterVec
	Requests     *prometheus.CounterVec
}

// NewCollector registers metrics against reg, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	runs, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phppkit_runs_total",
		Help: "Takeoff runs, labeled by whether the validation report was valid.",
	}, []string{"valid"}), "phppkit_runs_total")
	if err != nil {
		return nil, err
	}
	durations, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "phppkit_run_duration_seconds",
		Help:    "Takeoff run latency in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}), "phppkit_run_duration_seconds")
	if err != nil {
		return nil, err
	}
	diagnostics, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phppkit_diagnostics_total",
		Help: "Validation findings, labeled by kind and severity.",
	}, []string{"kind", "severity"}), "phppkit_diagnostics_total")
	if err != nil {
		return nil, err
	}
	cells, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phppkit_cell_writes_total",
		Help: "Workbook cell writes produced, labeled by sheet.",
	}, []string{"sheet"}), "phppkit_cell_writes_total")
	if err != nil {
		return nil, err
	}
	requests, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "phppkit_http_requests_total",
		Help: "Handled API requests, labeled by route and status code.",
	}, []string{"route", "code"}), "phppkit_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &Collector{
		gatherer:     gatherer,
		Runs:         runs,
		RunDurations: durations,
		Diagnostics:  diagnostics,
		CellWrites:   cells,
		Requests:     requests,
	}, nil
}

// ObserveRun records one run: its outcome, duration, findings, and writes.
func (c *Collector) ObserveRun(r *validation.Report, writes []workbook.CellWrite, elapsed time.Duration) {
	if c == nil {
		return
	}
	valid := "true"
	if r != nil && !r.Valid {
		valid = "false"
	}
	c.Runs.WithLabelValues(valid).Inc()
	c.RunDurations.Observe(elapsed.Seconds())
	c.ObserveReport(r)
	c.ObserveWrites(writes)
}

// ObserveReport counts every finding in r.
func (c *Collector) ObserveReport(r *validation.Report) {
	if c == nil || r == nil {
		return
	}
	for _, res := range r.All() {
		kind := string(res.Kind)
		if kind == "" {
			kind = "none"
		}
		c.Diagnostics.WithLabelValues(kind, string(res.Severity)).Inc()
	}
}

// ObserveWrites counts cell writes per sheet.
func (c *Collector) ObserveWrites(writes []workbook.CellWrite) {
	if c == nil {
		return
	}
	for _, w := range writes {
		c.CellWrites.WithLabelValues(w.Sheet).Inc()
	}
}

// ObserveRequest counts one API request.
func (c *Collector) ObserveRequest(route string, code int) {
	if c == nil {
		return
	}
	c.Requests.WithLabelValues(route, fmt.Sprint(code)).Inc()
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T, name string) (T, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		var zero T
		return zero, err
	}
	return c, nil
}
