package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/specdex/specdex/internal/core/domain"
	"github.com/specdex/specdex/internal/core/ports/driving"
	"github.com/specdex/specdex/internal/logger"
)

// Watcher re-ingests documents as they appear or change in a directory.
// Events are handled sequentially on the watch goroutine, preserving the
// pipeline's single-writer assumption.
type Watcher struct {
	ingest  driving.IngestService
	indexer driving.IndexService
}

// NewWatcher creates a directory watcher.
func NewWatcher(ingest driving.IngestService, indexer driving.IndexService) *Watcher {
	return &Watcher{ingest: ingest, indexer: indexer}
}

// Run watches dir until ctx is cancelled. Per-file failures are logged
// and skipped, matching batch semantics; only watcher-level failures
// stop the loop.
func (w *Watcher) Run(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if _, supported := domain.FormatForPath(event.Name); !supported {
				continue
			}
			w.reindex(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error: %v", err)
		}
	}
}

// reindex runs one changed file through the full pipeline.
func (w *Watcher) reindex(ctx context.Context, path string) {
	name := filepath.Base(path)
	logger.Info("Change detected: %s", name)

	chunks, err := w.ingest.ProcessDocument(ctx, path)
	if err != nil {
		logger.Error("%s: %v", name, err)
		return
	}
	if len(chunks) == 0 {
		logger.Warn("%s: no chunks produced", name)
		return
	}
	if err := w.indexer.BuildIndex(ctx, chunks); err != nil {
		logger.Error("%s: %v", name, err)
	}
}
