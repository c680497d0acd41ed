package loader

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Watch emits the names of programs whose source files change under the
// directory. The next runfsm of an emitted name picks the edit up; the
// channel is informational only.
func (s *FsSource) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, err
	}

	ch := make(chan string)
	go func() {
		defer watcher.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				ext := filepath.Ext(event.Name)
				if ext != ".go" && ext != ".fsm" {
					continue
				}
				name := strings.TrimSuffix(filepath.Base(event.Name), ext)
				select {
				case ch <- name:
				case <-ctx.Done():
					return
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Debug("program watcher error", "err", err)
			}
		}
	}()
	return ch, nil
}
