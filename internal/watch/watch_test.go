package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPathsSkipped(t *testing.T) {
	w, err := New(func(context.Context) error { return nil }, "", t.TempDir(), "")
	require.NoError(t, err)
	require.NoError(t, w.watcher.Close())
}

func TestNew_MissingPath_Fails(t *testing.T) {
	_, err := New(func(context.Context) error { return nil },
		filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestRun_CanceledContext_RunsInitialBuildAndReturns(t *testing.T) {
	var builds atomic.Int32
	w, err := New(func(context.Context) error {
		builds.Add(1)
		return nil
	}, t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, w.Run(ctx), context.Canceled)
	require.Equal(t, int32(1), builds.Load())
}

func TestRun_FileChange_TriggersRebuild(t *testing.T) {
	dir := t.TempDir()
	var builds atomic.Int32
	w, err := New(func(context.Context) error {
		builds.Add(1)
		return nil
	}, dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.md"), []byte("hello"), 0o600))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
