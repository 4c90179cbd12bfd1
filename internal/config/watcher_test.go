package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInputWatcherHandlesSettledFiles(t *testing.T) {
	dir := t.TempDir()
	got := make(chan string, 4)

	w, err := NewInputWatcher(dir, 50*time.Millisecond,
		func(path string) bool { return strings.HasSuffix(path, ".json") },
		func(path string) { got <- path },
	)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lote.json"), []byte("[]"), 0o600))

	target := filepath.Join(dir, "lote.json")
	f, err := os.Create(target)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err = f.WriteString("[]")
		require.NoError(t, err)
	}
	require.NoError(t, f.Close())

	select {
	case path := <-got:
		require.Equal(t, target, path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for input file")
	}

	// Several writes to one file settle into a single call.
	select {
	case path := <-got:
		t.Fatalf("unexpected second call for %s", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestInputWatcherStopIsIdempotent(t *testing.T) {
	w, err := NewInputWatcher(filepath.Join(t.TempDir(), "inbox"), 0, nil, func(string) {})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	_, err = os.Stat(w.dir)
	require.NoError(t, err, "Start creates the directory")

	w.Stop()
	w.Stop()
}

func TestInputWatcherStopWaitsForRunningHandler(t *testing.T) {
	dir := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var finished atomic.Bool

	w, err := NewInputWatcher(dir, 20*time.Millisecond, nil, func(string) {
		once.Do(func() { close(started) })
		<-release
		finished.Store(true)
	})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "lote.json"), []byte("[]"), 0o600))
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler")
	}

	stopped := make(chan struct{})
	go func() {
		w.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a handler was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the handler finished")
	}
	require.True(t, finished.Load())
}
