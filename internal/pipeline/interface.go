package pipeline

import "github.com/nguyentantai21042004/recap-flow/internal/models"

// Controller runs at most one job at a time on its own worker goroutine.
type Controller interface {
	// Start validates the request and launches a job. It returns the job ID,
	// or ErrJobAlreadyRunning, ErrInputNotFound or ErrToolchainMissing
	// without changing state.
	Start(req models.JobRequest) (string, error)
	// Cancel asks the running job to stop at its next window boundary.
	// Idempotent; a no-op when nothing runs.
	Cancel()
	// Events delivers progress for every job. The channel is never closed.
	Events() <-chan models.ProgressEvent
	// Done is closed when the current job reaches a terminal phase.
	Done() <-chan struct{}
	// Wait blocks until the current job ends and returns its final state.
	Wait() models.Job
	// Snapshot returns a copy of the current job.
	Snapshot() models.Job
}
