package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/assembler"
	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
	"github.com/nguyentantai21042004/recap-flow/internal/pipeline"
	"github.com/nguyentantai21042004/recap-flow/internal/report"
	"github.com/nguyentantai21042004/recap-flow/internal/summarizer"
	"github.com/nguyentantai21042004/recap-flow/internal/transcriber"
	"github.com/nguyentantai21042004/recap-flow/internal/tui"
	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// staleWorkspaceAge is how long a job workspace must sit untouched before a
// new process treats it as abandoned.
const staleWorkspaceAge = time.Hour

// app holds the wired components for one CLI invocation.
type app struct {
	cfg         *config.Config
	log         logger.Logger
	fs          afero.Fs
	media       media.Media
	transcriber transcriber.Transcriber
	catalog     *transcriber.Catalog
	controller  pipeline.Controller
	writer      report.Writer
}

// loadConfig reads the config named by --config. The default path may be
// absent; an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if f := cmd.Flag("config"); f != nil && f.Changed {
		cfg, err = config.Load(configFlag)
	} else {
		cfg, err = config.LoadOrDefault(defaultConfigPath)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	return cfg, nil
}

// openLogFile returns where logs go while the progress display owns the
// terminal: the named file, or nowhere.
func openLogFile(path string) (io.Writer, func(), error) {
	if path == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func isInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// newApp wires every component. Without summarize the jobs produce
// transcripts only and no API key is needed.
func newApp(ctx context.Context, cfg *config.Config, log logger.Logger, summarize bool) (*app, error) {
	fs := afero.NewOsFs()
	exec := executor.New()

	if n, err := media.SweepStale(fs, cfg.Paths.Temp, staleWorkspaceAge); err != nil {
		log.Warn(ctx, "Failed to sweep stale workspaces: %v", err)
	} else if n > 0 {
		log.Info(ctx, "Removed %d stale workspace(s) from a previous run", n)
	}

	m := media.New(cfg, fs, exec, log)

	tr, err := transcriber.New(cfg, fs, exec, log)
	if err != nil {
		return nil, fmt.Errorf("create transcriber: %w", err)
	}

	var summaries assembler.SummaryAssembler
	if summarize {
		s, err := summarizer.New(cfg, log)
		if err != nil {
			tr.Close()
			return nil, fmt.Errorf("create summarizer: %w (set GEMINI_API_KEYS or pass --no-summary)", err)
		}
		summaries = assembler.NewSummaries(s, cfg.Chunking.TextWindowChars, log)
	}

	ctrl := pipeline.New(cfg, pipeline.Dependencies{
		FS:          fs,
		Prober:      m,
		Toolchain:   m,
		Transcripts: assembler.NewTranscripts(m, tr, log),
		Summaries:   summaries,
		Logger:      log,
	})

	return &app{
		cfg:         cfg,
		log:         log,
		fs:          fs,
		media:       m,
		transcriber: tr,
		catalog:     transcriber.NewCatalog(fs, cfg.Whisper.ModelsDir),
		controller:  ctrl,
		writer:      report.New(cfg, fs, log),
	}, nil
}

// Close releases the loaded whisper model.
func (a *app) Close() {
	if err := a.transcriber.Close(); err != nil {
		a.log.Warn(context.Background(), "Failed to close transcriber: %v", err)
	}
}

// process runs one job to a terminal phase and writes its reports, returning
// the paths written. The job is cancelled when ctx is done. With interactive
// set the progress is drawn by the terminal UI, otherwise it is logged line
// by line.
func (a *app) process(ctx context.Context, req models.JobRequest, dest string, interactive bool) (models.Job, []string, error) {
	if err := a.checkModel(req.Tier); err != nil {
		return models.Job{}, nil, err
	}

	jobID, err := a.controller.Start(req)
	if err != nil {
		return models.Job{}, nil, err
	}
	a.log.Info(ctx, "Job %s started: %s", jobID, req.MediaPath)

	stopWatch := make(chan struct{})
	defer close(stopWatch)
	go func() {
		select {
		case <-ctx.Done():
			a.controller.Cancel()
		case <-stopWatch:
		}
	}()

	if interactive {
		if _, err := tui.RunProgress(req.MediaPath, a.controller.Events(), a.controller.Cancel); err != nil {
			// Without a display the job still has to finish or be stopped.
			a.log.Error(ctx, "Progress display failed: %v", err)
			a.controller.Cancel()
		}
	} else {
		tui.FollowPlain(ctx, a.controller.Events(), a.log)
	}

	job := a.controller.Wait()
	switch job.Phase {
	case models.PhaseDone:
		paths, err := a.writer.Write(ctx, job, dest)
		if err != nil {
			return job, nil, fmt.Errorf("write report: %w", err)
		}
		return job, paths, nil
	case models.PhaseCancelled:
		return job, nil, models.ErrCancelledByUser
	default:
		return job, nil, fmt.Errorf("job %s failed: %s", job.ID, job.Err)
	}
}

// checkModel fails early when the tier's model was never downloaded, rather
// than letting every window fail to transcribe.
func (a *app) checkModel(tier models.Tier) error {
	if tier == "" {
		tier = a.cfg.Tier()
	}
	tier, err := models.ParseTier(string(tier))
	if err != nil {
		return err
	}
	if !a.catalog.Downloaded(tier) {
		return fmt.Errorf("model for tier %s is missing at %s (run: recap models pull %s)", tier, a.catalog.Path(tier), tier)
	}
	return nil
}
