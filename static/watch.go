package static

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/indigo-web/minihttp/logging"
	"github.com/rs/zerolog"
)

// Watch reports changes of the given files into the sink until the context is done.
// Parent directories are watched instead of the files themselves, so files that don't
// exist yet or get replaced by editors are still tracked.
func Watch(ctx context.Context, sink logging.Sink, files ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	tracked := make(map[string]struct{}, len(files))
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}

		tracked[abs] = struct{}{}
		if err = watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if _, found := tracked[filepath.Clean(event.Name)]; !found {
				continue
			}

			switch {
			case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
				sink.Log(zerolog.WarnLevel, fmt.Sprintf("Resource %s removed.", event.Name))
			case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
				sink.Log(zerolog.InfoLevel, fmt.Sprintf("Resource %s updated.", event.Name))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			sink.Log(zerolog.ErrorLevel, fmt.Sprintf("Watcher error: %v", err))
		}
	}
}
