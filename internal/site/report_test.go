package site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildReport_Finish_NoIssues_Success(t *testing.T) {
	r := newBuildReport()
	r.finish()
	require.Equal(t, OutcomeSuccess, r.Outcome)
	require.False(t, r.End.Before(r.Start))
}

func TestBuildReport_Finish_WarningsOnly_Partial(t *testing.T) {
	r := newBuildReport()
	r.recordWarning(StageCollectPosts, newWarnStageError(StageCollectPosts, errors.New("skipped doc")))
	r.finish()
	require.Equal(t, OutcomePartial, r.Outcome)
}

func TestBuildReport_Finish_FatalError_Failed(t *testing.T) {
	r := newBuildReport()
	r.recordError(StageIndexPage, newFatalStageError(StageIndexPage, errors.New("boom")))
	r.finish()
	require.Equal(t, OutcomeFailed, r.Outcome)
}

func TestBuildReport_Finish_Canceled_CanceledOutcome(t *testing.T) {
	r := newBuildReport()
	r.recordError(StageTagPages, newCanceledStageError(StageTagPages, errors.New("ctx")))
	r.finish()
	require.Equal(t, OutcomeCanceled, r.Outcome)
}

func TestBuildReport_Persist_WritesJSON(t *testing.T) {
	dir := t.TempDir()
	r := newBuildReport()
	r.Posts = 3
	r.finish()

	require.NoError(t, r.Persist(dir))

	data, err := os.ReadFile(filepath.Join(dir, "build-report.json"))
	require.NoError(t, err)
	require.Contains(t, string(data), r.ID)
	require.Contains(t, string(data), `"posts": 3`)
}
