package report

import (
	"context"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Writer saves the transcript and summary of a finished job.
type Writer interface {
	// Write saves the job's reports and returns the paths written. An empty
	// dest derives <output dir>/<media base>_summary.txt.
	Write(ctx context.Context, job models.Job, dest string) ([]string, error)
}
