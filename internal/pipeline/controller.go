package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

func (c *implController) Start(req models.JobRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.job.Phase.Running() {
		return "", models.ErrJobAlreadyRunning
	}

	req, err := c.normalize(req)
	if err != nil {
		return "", err
	}
	if err := c.deps.Toolchain.Check(); err != nil {
		return "", err
	}
	if !isValidTransition(c.job.Phase, models.PhaseTranscribing) {
		return "", fmt.Errorf("invalid transition: %s -> %s", c.job.Phase, models.PhaseTranscribing)
	}

	// A new run drops everything the previous job accumulated.
	c.job = models.Job{
		ID:            uuid.NewString(),
		MediaPath:     req.MediaPath,
		Tier:          req.Tier,
		ChunkDuration: req.ChunkDuration,
		Phase:         models.PhaseTranscribing,
		StartedAt:     time.Now(),
	}
	c.stop = make(chan struct{})
	c.stopOnce = &sync.Once{}
	c.done = make(chan struct{})

	go c.run(c.job.ID, req, c.stop, c.done)
	return c.job.ID, nil
}

// normalize fills defaults from config and rejects bad requests.
func (c *implController) normalize(req models.JobRequest) (models.JobRequest, error) {
	if req.MediaPath == "" {
		return req, fmt.Errorf("%w: empty path", models.ErrInputNotFound)
	}
	info, err := c.deps.FS.Stat(req.MediaPath)
	if err != nil {
		if os.IsNotExist(err) {
			return req, fmt.Errorf("%w: %s", models.ErrInputNotFound, req.MediaPath)
		}
		return req, fmt.Errorf("%w: %s: %w", models.ErrInputNotFound, req.MediaPath, err)
	}
	if info.IsDir() {
		return req, fmt.Errorf("%w: %s is a directory", models.ErrInputNotFound, req.MediaPath)
	}

	if req.Tier == "" {
		req.Tier = c.cfg.Tier()
	}
	if req.Tier, err = models.ParseTier(string(req.Tier)); err != nil {
		return req, err
	}

	if req.ChunkDuration == 0 {
		req.ChunkDuration = c.cfg.ChunkDuration()
	}
	if req.ChunkDuration, err = models.ParseChunkDuration(int(req.ChunkDuration / time.Second)); err != nil {
		return req, err
	}
	return req, nil
}

func (c *implController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.job.Phase.Running() || c.stopOnce == nil {
		return
	}
	c.stopOnce.Do(func() {
		close(c.stop)
		c.deps.Logger.Info(context.Background(), "Cancellation requested for job %s", c.job.ID)
	})
}

func (c *implController) Events() <-chan models.ProgressEvent {
	return c.events
}

func (c *implController) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}
	return c.done
}

func (c *implController) Wait() models.Job {
	<-c.Done()
	return c.Snapshot()
}

func (c *implController) Snapshot() models.Job {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job.Clone()
}

// transition moves the job to phase if the edge is allowed.
func (c *implController) transition(phase models.Phase) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.job.Phase == phase {
		return nil
	}
	if !isValidTransition(c.job.Phase, phase) {
		return fmt.Errorf("invalid transition: %s -> %s", c.job.Phase, phase)
	}
	c.job.Phase = phase
	return nil
}

// isValidTransition enforces the job state machine edges.
func isValidTransition(from, to models.Phase) bool {
	switch from {
	case models.PhaseIdle:
		return to == models.PhaseTranscribing
	case models.PhaseTranscribing:
		return to == models.PhaseSummarizing || to == models.PhaseDone || to == models.PhaseCancelled || to == models.PhaseFailed
	case models.PhaseSummarizing:
		return to == models.PhaseDone || to == models.PhaseCancelled || to == models.PhaseFailed
	case models.PhaseDone, models.PhaseCancelled, models.PhaseFailed:
		return to == models.PhaseTranscribing || to == models.PhaseIdle
	default:
		return false
	}
}

// terminalPhase classifies how a job ended.
func terminalPhase(err error) models.Phase {
	switch {
	case err == nil:
		return models.PhaseDone
	case errors.Is(err, models.ErrCancelledByUser):
		return models.PhaseCancelled
	default:
		return models.PhaseFailed
	}
}
