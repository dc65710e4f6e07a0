package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorder_ImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("collect_posts", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncPageRendered()
	r.IncBuildOutcome("success")
}

func TestPrometheusRecorder_CountsPagesAndOutcomes(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)

	r.IncPageRendered()
	r.IncPageRendered()
	r.IncBuildOutcome("success")
	r.ObserveStageDuration("index_page", 10*time.Millisecond)
	r.ObserveBuildDuration(20 * time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(r.pagesRendered))
	require.Equal(t, 1.0, testutil.ToFloat64(r.buildOutcome.WithLabelValues("success")))
}

func TestNewPrometheusRecorder_RegistersMetrics(t *testing.T) {
	reg := prom.NewRegistry()
	r := NewPrometheusRecorder(reg)
	r.IncPageRendered()

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}
