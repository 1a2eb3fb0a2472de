package models

import "time"

// Phase tracks the lifecycle of one pipeline job.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseTranscribing Phase = "transcribing"
	PhaseSummarizing  Phase = "summarizing"
	PhaseDone         Phase = "done"
	PhaseCancelled    Phase = "cancelled"
	PhaseFailed       Phase = "failed"
)

// Running reports whether the phase is an active stage.
func (p Phase) Running() bool {
	return p == PhaseTranscribing || p == PhaseSummarizing
}

// Terminal reports whether the phase ends a job.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseCancelled || p == PhaseFailed
}

// JobRequest is what a driving surface submits to start a job.
type JobRequest struct {
	MediaPath     string
	Tier          Tier
	ChunkDuration time.Duration
}

// Job is one pipeline run. Owned by the controller; callers get copies.
type Job struct {
	ID            string        `json:"id"`
	MediaPath     string        `json:"mediaPath"`
	Tier          Tier          `json:"tier"`
	ChunkDuration time.Duration `json:"chunkDuration"`
	Phase         Phase         `json:"phase"`
	MediaDuration time.Duration `json:"mediaDuration"`
	Transcript    Transcript    `json:"transcript"`
	Summary       string        `json:"summary"`
	Skipped       int           `json:"skipped"`
	Err           string        `json:"error,omitempty"`
	StartedAt     time.Time     `json:"startedAt"`
	FinishedAt    time.Time     `json:"finishedAt,omitempty"`
}

// Clone returns a copy that shares no slices with the original.
func (j Job) Clone() Job {
	j.Transcript = append(Transcript(nil), j.Transcript...)
	return j
}
