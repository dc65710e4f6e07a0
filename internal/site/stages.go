package site

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is a discrete unit of work in the site build.
type Stage func(ctx context.Context, bs *buildState) error

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Build must abort.
	StageErrorWarning  StageErrorKind = "warning"  // Non-fatal; record and continue.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// Stage names, in execution order.
const (
	StagePrepareOutput = "prepare_output"
	StageCollectPosts  = "collect_posts"
	StageSortPosts     = "sort_posts"
	StageTagPages      = "tag_pages"
	StageAllTagsPage   = "all_tags_page"
	StageIndexPage     = "index_page"
	StageAllPostsPage  = "all_posts_page"
	StageVerifyLinks   = "verify_links"
)

// StageError is a structured error carrying category and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage string, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

type namedStage struct {
	name string
	fn   Stage
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal error. Warning-kind stage errors are recorded and the run
// continues with the next stage.
func runStages(ctx context.Context, bs *buildState, stages []namedStage) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			bs.report.recordError(st.name, se)
			return se
		default:
		}

		t0 := time.Now()
		err := st.fn(ctx, bs)
		bs.report.StageDurations[st.name] = time.Since(t0)
		bs.recorder.ObserveStageDuration(st.name, bs.report.StageDurations[st.name])

		if err == nil {
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Unclassified errors abort the build.
			se = newFatalStageError(st.name, err)
		}
		switch se.Kind {
		case StageErrorWarning:
			bs.report.recordWarning(st.name, se)
		default:
			bs.report.recordError(st.name, se)
			return se
		}
	}
	return nil
}
