// Package watcher ingests tabular files as they appear in a watched
// directory.
//
// The watcher is a foreground loop: Run blocks until the context is
// cancelled. File events are debounced so that editors and download
// managers that write in bursts trigger a single ingest per file.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tabulae-labs/askcsv-cli/internal/core/domain"
	"github.com/tabulae-labs/askcsv-cli/internal/core/ports/driving"
	"github.com/tabulae-labs/askcsv-cli/internal/logger"
)

const (
	// DefaultDebounce is how long a file must stay quiet before it is
	// ingested.
	DefaultDebounce = 500 * time.Millisecond

	// sweepInterval is how often pending files are checked against the
	// debounce window.
	sweepInterval = 100 * time.Millisecond
)

// Config holds the watcher configuration.
type Config struct {
	// Dir is the directory to watch. Subdirectories are not watched.
	Dir string

	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// OnResult is called after each ingest attempt. Optional.
	OnResult func(path string, result domain.IngestResult)
}

// Watcher watches a directory and ingests CSV and TSV files as they are
// created or modified.
type Watcher struct {
	dir      string
	debounce time.Duration
	onResult func(string, domain.IngestResult)
	ingest   driving.IngestService
}

// New creates a watcher for the configured directory. The directory is
// validated when Run is called, not here, so a watcher can be built
// before the directory exists.
func New(cfg Config, ingest driving.IngestService) *Watcher {
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		dir:      cfg.Dir,
		debounce: debounce,
		onResult: cfg.OnResult,
		ingest:   ingest,
	}
}

// Run watches the directory until the context is cancelled. Created and
// modified CSV and TSV files are ingested once they have been quiet for
// the debounce window. Ingests run on the watch goroutine; a slow ingest
// delays later files but keeps results ordered.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.validateDir(); err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem watcher: %w", err)
	}
	defer fsw.Close() //nolint:errcheck // Nothing to do with a close error here.

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s", w.dir)

	pending := make(map[string]time.Time)
	sweep := time.NewTicker(sweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path := eventPath(event); path != "" {
				pending[path] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)

		case now := <-sweep.C:
			for path, last := range pending {
				if now.Sub(last) < w.debounce {
					continue
				}
				delete(pending, path)
				w.ingestFile(ctx, path)
			}
		}
	}
}

// validateDir checks the watched path exists and is a directory.
func (w *Watcher) validateDir() error {
	info, err := os.Stat(w.dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", w.dir)
	}
	if err != nil {
		return fmt.Errorf("checking %s: %w", w.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", w.dir)
	}
	return nil
}

// eventPath returns the path a watch event refers to, or an empty string
// when the event should be ignored. Only Create and Write events on
// visible CSV and TSV files count; deletions and renames leave nothing
// to ingest.
func eventPath(event fsnotify.Event) string {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return ""
	}
	if isHiddenName(filepath.Base(event.Name)) || !isTabularPath(event.Name) {
		return ""
	}

	info, err := os.Stat(event.Name)
	if err != nil || info.IsDir() {
		return ""
	}
	return event.Name
}

// ingestFile reads a settled file and runs it through the ingest
// pipeline. Read failures are logged and skipped: the file can vanish
// between the event and the sweep.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("Skipping %s: %v", path, err)
		return
	}

	raw := domain.RawUpload{
		Filename: filepath.Base(path),
		Size:     int64(len(content)),
		MIMEType: mimeTypeForPath(path),
		Content:  content,
	}

	result := w.ingest.Ingest(ctx, raw)
	if w.onResult != nil {
		w.onResult(path, result)
	}
}

// isHiddenName reports whether a file name is hidden. Only the file's
// own name counts: the watched directory itself may live under a dot
// directory.
func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// isTabularPath reports whether a path looks like a tabular data file.
func isTabularPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return true
	default:
		return false
	}
}

func mimeTypeForPath(path string) string {
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		return "text/tab-separated-values"
	}
	return "text/csv"
}
