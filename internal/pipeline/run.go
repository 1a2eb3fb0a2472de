package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/assembler"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Share of the 0-100 scale given to transcription; summarization gets the rest.
const transcribeShare = 70.0

// run is the worker of one job. The workspace is closed before the terminal
// event is emitted, so no artifact outlives a finished job.
func (c *implController) run(jobID string, req models.JobRequest, stop <-chan struct{}, done chan struct{}) {
	defer close(done)

	ctx := context.Background()
	p := &progress{c: c, jobID: jobID}

	var ws media.Workspace
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("pipeline panic: %v", r)
			}
		}()

		ws, err = media.NewWorkspace(c.deps.FS, c.cfg.Paths.Temp, jobID)
		if err != nil {
			return &models.StageError{Stage: "workspace", Err: err}
		}
		return c.execute(ctx, req, ws, stop, p)
	}()

	if ws != nil {
		if cerr := ws.Close(); cerr != nil {
			c.deps.Logger.Warn(ctx, "Cleanup of job %s incomplete: %v", jobID, cerr)
		} else {
			c.deps.Logger.Debug(ctx, "Removed workspace %s", ws.Dir())
		}
	}

	c.finish(ctx, err, p)
}

func (c *implController) execute(ctx context.Context, req models.JobRequest, ws media.Workspace, stop <-chan struct{}, p *progress) error {
	c.deps.Logger.Info(ctx, "Starting job for %s (tier %s, %s windows)", req.MediaPath, req.Tier, req.ChunkDuration)
	p.emit(0, models.PhaseTranscribing, "Probing", "Reading media duration", nil)

	total, err := c.deps.Prober.Probe(ctx, req.MediaPath)
	if err != nil {
		return &models.StageError{Stage: "probe", Err: err}
	}

	c.mu.Lock()
	c.job.MediaDuration = total
	c.mu.Unlock()

	tr, err := c.deps.Transcripts.Assemble(ctx, assembler.TranscriptRequest{
		MediaPath: req.MediaPath,
		Total:     total,
		Chunk:     req.ChunkDuration,
		Tier:      req.Tier,
		Hint:      c.cfg.Whisper.Prompt,
		Workspace: ws,
		OnSegment: func(seg models.Segment) {
			c.mu.Lock()
			c.job.Transcript = append(c.job.Transcript, seg)
			c.mu.Unlock()
		},
	}, stop, p.phase(models.PhaseTranscribing, "Transcribing", 0, transcribeShare))

	c.mu.Lock()
	c.job.Skipped += tr.Skipped
	c.mu.Unlock()

	if err != nil {
		if errors.Is(err, models.ErrCancelledByUser) {
			return err
		}
		return &models.StageError{Stage: "transcribe", Err: err}
	}
	c.deps.Logger.Info(ctx, "Transcribed %d/%d windows", len(tr.Transcript), tr.Windows)

	if c.deps.Summaries == nil || tr.Transcript.Empty() {
		return nil
	}

	if err := c.transition(models.PhaseSummarizing); err != nil {
		return err
	}

	sum, err := c.deps.Summaries.Assemble(ctx, tr.Transcript.String(), stop,
		p.phase(models.PhaseSummarizing, "Summarizing", transcribeShare, 100-transcribeShare))

	c.mu.Lock()
	c.job.Summary = sum.Summary
	c.job.Skipped += sum.Skipped
	c.mu.Unlock()

	if err != nil {
		if errors.Is(err, models.ErrCancelledByUser) {
			return err
		}
		return &models.StageError{Stage: "summarize", Err: err}
	}
	return nil
}

// finish records the terminal phase and emits the final event.
func (c *implController) finish(ctx context.Context, err error, p *progress) {
	phase := terminalPhase(err)

	c.mu.Lock()
	if !isValidTransition(c.job.Phase, phase) {
		c.deps.Logger.Error(ctx, "invalid transition: %s -> %s", c.job.Phase, phase)
	}
	c.job.Phase = phase
	c.job.FinishedAt = time.Now()
	if phase == models.PhaseFailed {
		c.job.Err = err.Error()
	}
	job := c.job
	c.mu.Unlock()

	elapsed := job.FinishedAt.Sub(job.StartedAt).Round(time.Millisecond)
	switch phase {
	case models.PhaseDone:
		c.deps.Logger.Info(ctx, "Job %s done in %s (%d segments, %d skipped)", job.ID, elapsed, len(job.Transcript), job.Skipped)
		p.emit(100, phase, "Done", fmt.Sprintf("Finished in %s", elapsed), nil)
	case models.PhaseCancelled:
		c.deps.Logger.Info(ctx, "Job %s cancelled after %s", job.ID, elapsed)
		p.emit(p.last, phase, "Cancelled", "Stopped by user", nil)
	default:
		c.deps.Logger.Error(ctx, "Job %s failed: %v", job.ID, err)
		p.emit(p.last, phase, "Failed", err.Error(), err)
	}
}
