package snapshot

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of filesystem events into one.
const DefaultDebounce = 200 * time.Millisecond

// Event reports that the data file was changed by someone else.
type Event struct {
	Path string
}

// Watch observes the directory of the current data file and emits an Event
// when the file changes to content this repository did not write. The
// channel is closed when ctx is done or the watcher fails.
func (r *FileRepository) Watch(ctx context.Context, debounce time.Duration) (<-chan Event, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	path := filepath.Clean(r.paths.CurrentPath())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	events := make(chan Event, 8)

	go func() {
		defer close(events)
		defer watcher.Close()

		send := func() {
			raw, err := r.backend.Read(path)
			if err != nil || r.isOwnWrite(raw) {
				return
			}
			select {
			case events <- Event{Path: path}:
			default:
				// a reload is already queued; it will see this change too
			}
		}

		// fires once no event arrived for debounce
		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
				send()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				r.log.Warn(ctx, "watcher error", "err", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != path {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				timer.Reset(debounce)
			}
		}
	}()

	return events, nil
}
