package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"covidreport/internal/infrastructure"
)

// FileWatcher reports modifications of a local dataset file. The parent
// directory is watched so files replaced by rename are still seen.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	monitor  *Monitor
	metrics  *infrastructure.ReportMetrics
	logger   *slog.Logger
	onChange func(path string)

	lastMod time.Time
}

// NewFileWatcher starts watching the directory holding path. onChange may be
// nil.
func NewFileWatcher(path string, monitor *Monitor, metrics *infrastructure.ReportMetrics, logger *slog.Logger, onChange func(string)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	fw := &FileWatcher{
		path:     abs,
		watcher:  w,
		monitor:  monitor,
		metrics:  metrics,
		logger:   logger.With(slog.String("component", "file_watcher")),
		onChange: onChange,
	}
	if info, err := os.Stat(abs); err == nil {
		fw.lastMod = info.ModTime()
	}
	return fw, nil
}

// Run consumes events until ctx is done or the watcher is closed
func (fw *FileWatcher) Run(ctx context.Context) error {
	fw.logger.InfoContext(ctx, "Watching dataset file", slog.String("path", fw.path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			fw.handle(ctx, event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.ErrorContext(ctx, "File watcher error", slog.String("error", err.Error()))
		}
	}
}

func (fw *FileWatcher) handle(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != fw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	info, err := os.Stat(fw.path)
	if err != nil {
		return
	}
	// Editors emit several writes per save
	if !info.ModTime().After(fw.lastMod) {
		return
	}
	fw.lastMod = info.ModTime()

	fw.monitor.recordChange(time.Now())
	fw.metrics.RecordDatasetChange(ctx)
	fw.logger.InfoContext(ctx, "Dataset file changed",
		slog.String("path", fw.path),
		slog.String("op", event.Op.String()),
		slog.Time("mod_time", info.ModTime()))

	if fw.onChange != nil {
		fw.onChange(fw.path)
	}
}

// Close stops the underlying fsnotify watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
