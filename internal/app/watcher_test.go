package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestWatcherCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mouse.svg")
	require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0o644))
	base := time.Now().Add(-time.Hour)
	touch(t, path, base)

	w, err := NewWatcher(path, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, path, w.Path())
	assert.False(t, w.Check())

	touch(t, path, base.Add(time.Minute))
	assert.True(t, w.Check())
	assert.False(t, w.Check(), "a change is reported once")

	require.NoError(t, os.Remove(path))
	assert.False(t, w.Check())
}

func TestWatcherMissingFile(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope.svg"), 0)
	assert.Error(t, err)
}

func TestWatcherCallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mouse.svg")
	require.NoError(t, os.WriteFile(path, []byte("<svg/>"), 0o644))
	base := time.Now().Add(-time.Hour)
	touch(t, path, base)

	w, err := NewWatcher(path, 5*time.Millisecond)
	require.NoError(t, err)

	changed := make(chan struct{}, 1)
	w.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	w.Start()
	w.Start()
	defer w.Stop()

	touch(t, path, base.Add(time.Minute))
	select {
	case <-changed:
	case <-time.After(2 * time.Second):
		t.Fatal("change not reported")
	}
}
