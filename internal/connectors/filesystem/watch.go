package filesystem

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/vedika/internal/logger"
)

// DefaultDebounce is how long Watch waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watch reports batch file changes in the corpus directory. Bursts of
// events are coalesced: one value is sent per quiet period, listing the
// batches that changed. The channel is closed when ctx is done.
func (s *Source) Watch(ctx context.Context, debounce time.Duration) (<-chan []string, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	changes := make(chan []string)
	go func() {
		defer close(changes)
		defer watcher.Close()

		pending := make(map[string]struct{})
		timer := time.NewTimer(debounce)
		timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if name, changed := handleFsEvent(event); changed {
					pending[name] = struct{}{}
					timer.Reset(debounce)
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error: %v", err)

			case <-timer.C:
				if len(pending) == 0 {
					continue
				}
				names := make([]string, 0, len(pending))
				for name := range pending {
					names = append(names, name)
				}
				sort.Strings(names)
				pending = make(map[string]struct{})

				select {
				case changes <- names:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return changes, nil
}

// handleFsEvent returns the batch name for events that change a batch file.
func handleFsEvent(event fsnotify.Event) (string, bool) {
	name := filepath.Base(event.Name)
	if !isBatchFile(name) {
		return "", false
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return "", false
	}
	return name, true
}

