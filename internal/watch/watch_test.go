package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New([]string{"/does/not/exist/anywhere"}, func() {}, testLogger())
	assert.Error(t, err)
}

func TestIsRelevant(t *testing.T) {
	assert.True(t, isRelevant(fsnotify.Event{Op: fsnotify.Create}))
	assert.True(t, isRelevant(fsnotify.Event{Op: fsnotify.Remove}))
	assert.True(t, isRelevant(fsnotify.Event{Op: fsnotify.Rename}))
	assert.False(t, isRelevant(fsnotify.Event{Op: fsnotify.Write}))
	assert.False(t, isRelevant(fsnotify.Event{Op: fsnotify.Chmod}))
}

func TestRun_DebouncedCallback(t *testing.T) {
	if testing.Short() {
		t.Skip("debounce window makes this test slow")
	}
	root := t.TempDir()
	fired := make(chan struct{}, 1)

	w, err := New([]string{root}, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	// A burst of creates must collapse into a single callback.
	for i := 0; i < 3; i++ {
		name := filepath.Join(root, "clip"+string(rune('a'+i))+".mp4")
		require.NoError(t, os.WriteFile(name, nil, 0644))
	}

	select {
	case <-fired:
	case <-time.After(debounce + 3*time.Second):
		t.Fatal("expected a change callback after the debounce window")
	}

	// No second callback without further events.
	select {
	case <-fired:
		t.Fatal("burst must produce exactly one callback")
	case <-time.After(debounce + time.Second):
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	root := t.TempDir()
	w, err := New([]string{root}, func() {}, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
