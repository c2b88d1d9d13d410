package editor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/boxedit/pkg/formats"
)

func TestLocalFiles(t *testing.T) {
	dir := fixtureDir(t)
	s := NewSession(Options{})
	assert.Empty(t, s.LocalFiles())

	require.NoError(t, s.Load(context.Background(), filepath.Join(dir, "golem.json"), ""))
	assert.Equal(t, []string{
		filepath.Join(dir, "golem.json"),
		filepath.Join(dir, "golem.png"),
	}, s.LocalFiles())
}

func TestLiveReload(t *testing.T) {
	dir := fixtureDir(t)
	path := filepath.Join(dir, "golem.json")
	s := NewSession(Options{})
	require.NoError(t, s.Load(context.Background(), path, ""))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	results := make(chan error, 4)
	go Live(ctx, s, 30*time.Millisecond, func(err error) { results <- err })
	time.Sleep(50 * time.Millisecond)

	// A broken save is reported and the model stays.
	require.NoError(t, os.WriteFile(path, []byte(`{"name":`), 0o644))
	select {
	case err := <-results:
		assert.ErrorIs(t, err, formats.ErrInvalidModel)
		assert.Equal(t, "golem", s.Model().Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after broken save")
	}

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(modelJSON, `"golem"`, `"golem3"`, 1)), 0o644))
	select {
	case err := <-results:
		require.NoError(t, err)
		assert.Equal(t, "golem3", s.Model().Name)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after fix")
	}
}
