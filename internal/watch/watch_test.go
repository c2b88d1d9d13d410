package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(model, []byte("{}"), 0o644))

	w, err := New(50 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(model))
	assert.Equal(t, []string{model}, w.Files())

	changes := make(chan []string, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, func(paths []string) { changes <- paths })

	// Give the goroutine a moment to start selecting.
	time.Sleep(20 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(model, []byte(`{"n":1}`), 0o644))
	}
	require.NoError(t, os.WriteFile(other, []byte("ignored"), 0o644))

	select {
	case paths := <-changes:
		assert.Equal(t, []string{model}, paths)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	select {
	case paths := <-changes:
		t.Fatalf("unexpected second batch %v", paths)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherRenameSave(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "model.json")
	require.NoError(t, os.WriteFile(model, []byte("{}"), 0o644))

	w, err := New(20 * time.Millisecond)
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Add(model))

	changes := make(chan []string, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, func(paths []string) { changes <- paths })
	time.Sleep(20 * time.Millisecond)

	tmp := filepath.Join(dir, ".model.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"saved":true}`), 0o644))
	require.NoError(t, os.Rename(tmp, model))

	select {
	case paths := <-changes:
		assert.Contains(t, paths, model)
	case <-time.After(5 * time.Second):
		t.Fatal("rename save not reported")
	}
}

func TestWatcherRunStops(t *testing.T) {
	w, err := New(time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func([]string) {}) }()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Add(filepath.Join(t.TempDir(), "x")), ErrClosed)
}
