// Package watch monitors scanned roots for filesystem changes and
// signals when a rescan is warranted.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce collapses bursts of events (a large copy, an unpack) into a
// single rescan signal.
const debounce = 2 * time.Second

// OnChangeFunc is invoked after the debounce window whenever watched
// roots changed.
type OnChangeFunc func()

// Watcher observes root directories and fires a debounced callback on
// relevant changes. It watches the roots themselves, not their
// subtrees; a change at the top is the rescan trigger.
type Watcher struct {
	fw       *fsnotify.Watcher
	onChange OnChangeFunc
	log      *slog.Logger
}

// New creates a watcher over the given roots.
func New(roots []string, onChange OnChangeFunc, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, root := range roots {
		if err := fw.Add(root); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("watch %q: %w", root, err)
		}
	}
	return &Watcher{fw: fw, onChange: onChange, log: logger}, nil
}

// Run blocks, dispatching debounced change callbacks until the context
// is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if !isRelevant(event) {
				continue
			}
			w.log.Debug("filesystem event", "op", event.Op.String(), "path", event.Name)
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}

		case <-fire:
			timer = nil
			fire = nil
			if w.onChange != nil {
				w.onChange()
			}

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "error", err)
		}
	}
}

// Close releases the fsnotify resources.
func (w *Watcher) Close() error { return w.fw.Close() }

// isRelevant filters for events that could change discovery results.
func isRelevant(e fsnotify.Event) bool {
	return e.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
