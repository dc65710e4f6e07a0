// Package metrics provides observability hooks for site builds.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics impose no overhead and no nil checks when not
// configured. The watch command swaps in PrometheusRecorder.
package metrics

import "time"

// Recorder defines observability hooks for build and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncPageRendered()
	IncBuildOutcome(outcome string) // outcome: success|partial|failed|canceled
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncPageRendered()                           {}
func (NoopRecorder) IncBuildOutcome(string)                     {}
