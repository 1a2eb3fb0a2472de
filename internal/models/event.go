package models

import "time"

// ProgressEvent is one update emitted by a running job.
type ProgressEvent struct {
	JobID     string    `json:"jobId"`
	Percent   float64   `json:"percent"`
	Status    string    `json:"status"`
	Step      string    `json:"step"`
	Phase     Phase     `json:"phase"`
	Err       string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Final reports whether the event closes its job.
func (e ProgressEvent) Final() bool {
	return e.Phase.Terminal()
}
