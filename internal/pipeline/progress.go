package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/assembler"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// progress maps phase fractions onto the job's 0-100 scale and keeps the
// emitted percent non-decreasing. Used by the worker goroutine only.
type progress struct {
	c     *implController
	jobID string
	last  float64
}

// phase returns a callback spreading [0, 1] over [base, base+span].
func (p *progress) phase(phase models.Phase, status string, base, span float64) assembler.ProgressFunc {
	return func(u assembler.Update) {
		st := status
		if u.Err != nil {
			st = "Skipped window"
		}
		p.emit(base+u.Fraction*span, phase, st, u.Step, u.Err)
	}
}

func (p *progress) emit(percent float64, phase models.Phase, status, step string, err error) {
	percent = min(max(percent, p.last), 100)
	p.last = percent

	ev := models.ProgressEvent{
		JobID:     p.jobID,
		Percent:   percent,
		Status:    status,
		Step:      step,
		Phase:     phase,
		Timestamp: time.Now(),
	}
	if err != nil {
		ev.Err = err.Error()
	}
	p.c.publish(ev)
}

// publish never blocks the worker. A full channel loses its oldest event.
func (c *implController) publish(ev models.ProgressEvent) {
	for {
		select {
		case c.events <- ev:
			return
		default:
		}
		select {
		case <-c.events:
		default:
		}
	}
}
