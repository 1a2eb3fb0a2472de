package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

var mediaExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".mkv": true, ".avi": true, ".webm": true, ".m4v": true, ".flv": true,
	".mp3": true, ".wav": true, ".m4a": true, ".flac": true, ".ogg": true, ".aac": true,
}

type implWatcher struct {
	inputDir string
	handler  EventHandler
	logger   logger.Logger
	watcher  *fsnotify.Watcher
	queue    chan string
	// settle is how long a file's size must stay unchanged before it is
	// considered fully written.
	settle time.Duration
	wg     sync.WaitGroup
}

// Start monitors the input directory until ctx is done. Files are handled
// serially by a single worker.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started. Monitoring: %s", w.inputDir)

	w.wg.Add(1)
	go w.work(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for the current file to finish...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isMediaFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-media file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New media detected: %s", event.Name)
			select {
			case w.queue <- event.Name:
			default:
				w.logger.Warn(ctx, "Queue full, dropping %s", event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

func (w *implWatcher) work(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			if err := w.waitStable(ctx, path); err != nil {
				w.logger.Warn(ctx, "Skipping %s: %v", path, err)
				continue
			}
			if err := w.handler(ctx, path); err != nil {
				w.logger.Error(ctx, "Failed to process %s: %v", path, err)
			}
		}
	}
}

// waitStable blocks until the file size stops changing. It gives up after
// maxSettleChecks polls, and a file that is still empty by then is skipped.
func (w *implWatcher) waitStable(ctx context.Context, path string) error {
	var last int64 = -1
	for range maxSettleChecks {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		size := info.Size()
		if size == last && size > 0 {
			return nil
		}
		last = size

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settle):
		}
	}

	if last == 0 {
		return errors.New("file is empty")
	}
	return fmt.Errorf("still being written after %s", w.settle*maxSettleChecks)
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// isMediaFile checks if the file has a supported audio or video extension
func isMediaFile(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return false
	}
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}
