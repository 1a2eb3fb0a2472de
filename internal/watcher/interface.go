package watcher

import "context"

// Watcher queues media files dropped into a directory and hands them to the
// handler one at a time.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one media file. It runs to completion before the
// next queued file is handled.
type EventHandler func(ctx context.Context, filePath string) error
