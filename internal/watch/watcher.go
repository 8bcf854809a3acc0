// Package watch turns filesystem state into pipeline-entry messages. Each
// watched root gets its own FileHandler; the watcher itself only decides
// which paths to hand over and when.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"talentflow/internal/correlation"
)

// FileHandler processes one newly discovered file. Implementations are
// injected per watched root.
type FileHandler interface {
	OnFileCreated(ctx context.Context, path string)
}

// Root binds a directory to the handler for files of one extension.
type Root struct {
	Dir     string
	Ext     string // e.g. ".csv"
	Handler FileHandler
}

type Watcher struct {
	roots []Root
}

func New(roots ...Root) *Watcher {
	return &Watcher{roots: roots}
}

// Run processes existing files first (files dropped while the process was
// down are not lost), then watches for new ones until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for _, root := range w.roots {
		if err := os.MkdirAll(root.Dir, 0o755); err != nil {
			return err
		}
	}

	w.catchUp(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, root := range w.roots {
		if err := fsw.Add(root.Dir); err != nil {
			return err
		}
		slog.Info("watching for new files", "dir", root.Dir, "ext", root.Ext)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			w.dispatch(ctx, event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("watch error", "error", err)
		}
	}
}

func (w *Watcher) catchUp(ctx context.Context) {
	for _, root := range w.roots {
		entries, err := os.ReadDir(root.Dir)
		if err != nil {
			slog.Error("catch-up scan failed", "dir", root.Dir, "error", err)
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !matchesExt(entry.Name(), root.Ext) {
				continue
			}
			path := filepath.Join(root.Dir, entry.Name())
			slog.Info("found existing file", "path", path)
			mctx := correlation.With(ctx, correlation.New())
			root.Handler.OnFileCreated(mctx, path)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	dir := filepath.Dir(path)
	for _, root := range w.roots {
		if dir != filepath.Clean(root.Dir) || !matchesExt(path, root.Ext) {
			continue
		}
		slog.Info("new file detected", "path", path)
		mctx := correlation.With(ctx, correlation.New())
		root.Handler.OnFileCreated(mctx, path)
		return
	}
}

func matchesExt(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}
