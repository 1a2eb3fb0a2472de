package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

type runOptions struct {
	tier      string
	chunk     int
	output    string
	quiet     bool
	noSummary bool
	docx      bool
	logFile   string
}

func newRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <media-file>",
		Short: "Transcribe and summarize one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOne(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.tier, "tier", "", "Quality tier: fast, balanced, best (default from config)")
	cmd.Flags().IntVar(&opts.chunk, "chunk", 0, "Window size in seconds: 30, 60, 120, 300 (default from config)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Report file path (default <output dir>/<name>_summary.txt)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Log progress lines instead of drawing a progress bar")
	cmd.Flags().BoolVar(&opts.noSummary, "no-summary", false, "Produce the transcript only")
	cmd.Flags().BoolVar(&opts.docx, "docx", false, "Also write a DOCX report")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file while the progress bar is shown")

	return cmd
}

func runOne(cmd *cobra.Command, mediaPath string, opts runOptions) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if opts.docx {
		cfg.Output.Docx = true
	}

	interactive := !opts.quiet && isInteractive()

	var log logger.Logger
	if interactive {
		w, closeLog, err := openLogFile(opts.logFile)
		if err != nil {
			return err
		}
		defer closeLog()
		log = logger.NewWithWriter(cfg.Logging.Level, cfg.Logging.Format, w)
	} else {
		log = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log, !opts.noSummary)
	if err != nil {
		return err
	}
	defer a.Close()

	req := models.JobRequest{
		MediaPath:     mediaPath,
		Tier:          models.Tier(opts.tier),
		ChunkDuration: time.Duration(opts.chunk) * time.Second,
	}

	job, paths, err := a.process(ctx, req, opts.output, interactive)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Media:     %s (%s)\n", job.MediaPath, job.MediaDuration.Round(time.Second))
	fmt.Printf("  Tier:      %s, %s windows\n", job.Tier, job.ChunkDuration)
	if job.Skipped > 0 {
		fmt.Printf("  Skipped:   %d window(s)\n", job.Skipped)
	}
	fmt.Printf("  Took:      %s\n", job.FinishedAt.Sub(job.StartedAt).Round(time.Second))
	for _, p := range paths {
		fmt.Printf("  Report:    %s\n", p)
	}
	fmt.Println()

	return nil
}
