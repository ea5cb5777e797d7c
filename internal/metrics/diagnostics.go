// Package metrics holds the process diagnostic counters and their Prometheus exposition.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "variant_studio"

// Diagnostics owns a private registry so tests and multiple servers never share counters.
// All methods are safe for concurrent use.
type Diagnostics struct {
	registry *prometheus.Registry

	generations        prometheus.Counter
	generationFailures prometheus.Counter
	polishes           prometheus.Counter
	polishFailures     prometheus.Counter
	exports            prometheus.Counter
	exportFailures     prometheus.Counter
	llmCalls           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Gen        int64            `json:"gen"`
	GenFail    int64            `json:"genFail"`
	Polish     int64            `json:"polish"`
	PolishFail int64            `json:"polishFail"`
	Export     int64            `json:"export"`
	ExportFail int64            `json:"exportFail"`
	LLM        map[string]int64 `json:"llm"`
}

// New creates a Diagnostics with its own registry.
func New() *Diagnostics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Diagnostics{
		registry: registry,
		generations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of successful generation requests.",
		}),
		generationFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Total number of generation requests that failed.",
		}),
		polishes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polish_total",
			Help:      "Total number of polish requests served.",
		}),
		polishFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polish_failures_total",
			Help:      "Total number of variants whose polish failed.",
		}),
		exports: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Total number of CSV files written.",
		}),
		exportFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_failures_total",
			Help:      "Total number of CSV writes that failed.",
		}),
		llmCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_calls_total",
			Help:      "Total number of model calls, partitioned by operation and outcome.",
		}, []string{"operation", "outcome"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, partitioned by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "code"}),
	}
}

// GenerationSucceeded counts a generation request that returned variants.
func (d *Diagnostics) GenerationSucceeded() { d.generations.Inc() }

// GenerationFailed counts a generation request that ended in an error.
func (d *Diagnostics) GenerationFailed() { d.generationFailures.Inc() }

// PolishServed counts a polish request.
func (d *Diagnostics) PolishServed() { d.polishes.Inc() }

// PolishFailed counts variants that kept their original copy.
func (d *Diagnostics) PolishFailed(n int) {
	if n > 0 {
		d.polishFailures.Add(float64(n))
	}
}

// ExportWritten counts a CSV file written.
func (d *Diagnostics) ExportWritten() { d.exports.Inc() }

// ExportFailed counts a CSV write failure.
func (d *Diagnostics) ExportFailed() { d.exportFailures.Inc() }

// LLMCall counts one model call outcome.
func (d *Diagnostics) LLMCall(operation, outcome string) {
	d.llmCalls.WithLabelValues(operation, outcome).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (d *Diagnostics) ObserveRequest(route string, code int, elapsed time.Duration) {
	d.requestDuration.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (d *Diagnostics) Handler() http.Handler {
	return promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{Registry: d.registry})
}

// Snapshot reads the current counter values.
func (d *Diagnostics) Snapshot() Snapshot {
	snap := Snapshot{
		Gen:        counterValue(d.generations),
		GenFail:    counterValue(d.generationFailures),
		Polish:     counterValue(d.polishes),
		PolishFail: counterValue(d.polishFailures),
		Export:     counterValue(d.exports),
		ExportFail: counterValue(d.exportFailures),
		LLM:        make(map[string]int64),
	}

	families, err := d.registry.Gather()
	if err != nil {
		return snap
	}
	for _, mf := range families {
		if mf.GetName() != namespace+"_llm_calls_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			var operation, outcome string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "operation":
					operation = lp.GetValue()
				case "outcome":
					outcome = lp.GetValue()
				}
			}
			snap.LLM[operation+"."+outcome] = int64(m.GetCounter().GetValue())
		}
	}
	return snap
}

func counterValue(c prometheus.Counter) int64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return int64(m.GetCounter().GetValue())
}
