package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

const (
	queueSize     = 100
	defaultSettle = 500 * time.Millisecond
	// maxSettleChecks bounds how long one file may hold the worker.
	maxSettleChecks = 20
)

// New creates a Watcher on inputDir.
func New(inputDir string, handler EventHandler, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
		queue:    make(chan string, queueSize),
		settle:   defaultSettle,
	}, nil
}
