package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu    sync.Mutex
	paths []string
	seen  chan string
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{seen: make(chan string, 16)}
}

func (h *recordingHandler) OnFileCreated(_ context.Context, path string) {
	h.mu.Lock()
	h.paths = append(h.paths, path)
	h.mu.Unlock()
	h.seen <- path
}

func (h *recordingHandler) recorded() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.paths...)
}

func TestWatcher_CatchUpScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jobs.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "processed"), 0o755))

	handler := newRecordingHandler()
	w := New(Root{Dir: dir, Ext: ".csv", Handler: handler})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.Equal(t, []string{filepath.Join(dir, "jobs.csv")}, handler.recorded())
}

func TestWatcher_CaseInsensitiveExtension(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "resume.PDF"), []byte("x"), 0o644))

	handler := newRecordingHandler()
	w := New(Root{Dir: dir, Ext: ".pdf", Handler: handler})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	assert.Len(t, handler.recorded(), 1)
}

func TestWatcher_LiveEvent(t *testing.T) {
	dir := t.TempDir()
	handler := newRecordingHandler()
	w := New(Root{Dir: dir, Ext: ".csv", Handler: handler})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to install its watch before creating the file.
	time.Sleep(100 * time.Millisecond)
	path := filepath.Join(dir, "new-jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	select {
	case got := <-handler.seen:
		assert.Equal(t, path, got)
	case <-time.After(3 * time.Second):
		t.Fatal("watcher never saw the new file")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_CreatesMissingRoots(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "jobs")
	w := New(Root{Dir: dir, Ext: ".csv", Handler: newRecordingHandler()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
