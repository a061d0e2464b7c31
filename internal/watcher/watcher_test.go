// Package watcher reports when the tally database file is removed while the
// tracker is running.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherDetectsDeletion(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tally.db")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))

	var calls atomic.Int32
	var gotPath atomic.Value
	w, err := New(target, func(path string) {
		gotPath.Store(path)
		calls.Add(1)
	})
	require.NoError(t, err)
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	assert.False(t, w.Deleted())

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(target+"-wal", []byte("x"), 0o600))
	require.NoError(t, os.Remove(target+"-wal"))

	require.NoError(t, os.Remove(target))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, w.Deleted())
	assert.Equal(t, filepath.Clean(target), gotPath.Load())

	require.NoError(t, os.WriteFile(target, []byte("x"), 0o600))
	require.Eventually(t, func() bool { return !w.Deleted() }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	target := filepath.Join(t.TempDir(), "tally.db")
	w, err := New(target, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	require.NoError(t, w.Start(ctx))
	cancel()

	require.NoError(t, w.Stop())
	assert.False(t, w.Deleted())
}

func TestWatcherMissingParent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing", "tally.db"), nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start(context.Background()))
}
