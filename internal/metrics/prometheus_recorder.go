package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration *prom.HistogramVec
	buildDuration prom.Histogram
	pagesRendered prom.Counter
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers metrics on the registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	r := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "mdsite_stage_duration_seconds",
			Help:    "Duration of individual build stages.",
			Buckets: prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Name:    "mdsite_build_duration_seconds",
			Help:    "Total duration of site generation runs.",
			Buckets: prom.DefBuckets,
		}),
		pagesRendered: prom.NewCounter(prom.CounterOpts{
			Name: "mdsite_pages_rendered_total",
			Help: "HTML pages written across all runs.",
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Name: "mdsite_build_outcome_total",
			Help: "Build runs by final outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(r.stageDuration, r.buildDuration, r.pagesRendered, r.buildOutcome)
	return r
}

func (r *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	r.buildDuration.Observe(d.Seconds())
}

func (r *PrometheusRecorder) IncPageRendered() {
	r.pagesRendered.Inc()
}

func (r *PrometheusRecorder) IncBuildOutcome(outcome string) {
	r.buildOutcome.WithLabelValues(outcome).Inc()
}

// HTTPHandler returns an http.Handler serving the registry's metrics.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
