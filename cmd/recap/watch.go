package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
	"github.com/nguyentantai21042004/recap-flow/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	var noSummary bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process every recording dropped into the input directory",
		Long: `watch monitors the configured input directory and runs a job for each new
media file, one at a time. Reports are written to the output directory.
Ctrl+C cancels the active job and stops watching.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, noSummary)
		},
	}

	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Produce transcripts only")

	return cmd
}

func runWatch(cmd *cobra.Command, noSummary bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ensureDirectories(cfg.Paths.Input, cfg.Paths.Output); err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, log, !noSummary)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := func(ctx context.Context, path string) error {
		_, _, err := a.process(ctx, models.JobRequest{MediaPath: path}, "", false)
		return err
	}

	w, err := watcher.New(cfg.Paths.Input, handler, log)
	if err != nil {
		return err
	}
	defer w.Stop()

	log.Info(ctx, "Watching %s, reports go to %s. Press Ctrl+C to stop", cfg.Paths.Input, cfg.Paths.Output)

	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
