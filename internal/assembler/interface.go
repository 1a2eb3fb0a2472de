package assembler

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Update is one progress report from an assembler. Fraction is the share of
// the current phase started so far, in [0, 1]. Err is set when a window was
// skipped.
type Update struct {
	Fraction float64
	Step     string
	Err      error
}

// ProgressFunc receives assembler updates on the worker goroutine.
type ProgressFunc func(Update)

// TranscriptRequest describes one transcription pass over a media file.
type TranscriptRequest struct {
	MediaPath string
	Total     time.Duration
	Chunk     time.Duration
	Tier      models.Tier
	Hint      string
	Workspace media.Workspace
	// OnSegment is called as each segment is appended, so the caller holds
	// the partial transcript if the pass is cut short.
	OnSegment func(models.Segment)
}

// TranscriptResult is what a transcription pass produced.
type TranscriptResult struct {
	Transcript models.Transcript
	Windows    int
	Skipped    int
}

// TranscriptAssembler extracts and transcribes every TimeWindow in order.
// A closed stop channel ends the pass at the next window boundary with
// ErrCancelledByUser and the segments gathered so far.
type TranscriptAssembler interface {
	Assemble(ctx context.Context, req TranscriptRequest, stop <-chan struct{}, onProgress ProgressFunc) (TranscriptResult, error)
}

// SummaryResult is what a summarization pass produced.
type SummaryResult struct {
	Summary string
	Windows int
	Skipped int
}

// SummaryAssembler condenses a transcript TextWindow by TextWindow and joins
// the partial summaries in order.
type SummaryAssembler interface {
	Assemble(ctx context.Context, transcript string, stop <-chan struct{}, onProgress ProgressFunc) (SummaryResult, error)
}
