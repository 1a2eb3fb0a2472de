package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

func (a *implTranscripts) Assemble(ctx context.Context, req TranscriptRequest, stop <-chan struct{}, onProgress ProgressFunc) (TranscriptResult, error) {
	windows := models.Windows(req.Total, req.Chunk)
	result := TranscriptResult{Windows: len(windows)}
	report := progressOrNop(onProgress)

	for _, w := range windows {
		if stopped(stop) {
			a.logger.Info(ctx, "Transcription stopped before %s", w)
			return result, models.ErrCancelledByUser
		}

		step := fmt.Sprintf("Transcribing %s-%s (%d/%d)",
			models.FormatTimestamp(w.Start), models.FormatTimestamp(w.End()), w.Index+1, len(windows))
		report(Update{Fraction: float64(w.Start) / float64(req.Total), Step: step})

		seg, err := a.window(ctx, req, w)
		if err != nil {
			if !skippable(err) {
				return result, err
			}
			result.Skipped++
			a.logger.Warn(ctx, "Skipping %s: %v", w, err)
			report(Update{Fraction: float64(w.Start) / float64(req.Total), Step: "Skipped " + w.String(), Err: err})
			continue
		}

		result.Transcript = append(result.Transcript, seg)
		if req.OnSegment != nil {
			req.OnSegment(seg)
		}
	}

	report(Update{Fraction: 1, Step: "Transcription finished"})
	return result, nil
}

// window extracts and transcribes one TimeWindow. The artifact is released
// whether or not transcription succeeds.
func (a *implTranscripts) window(ctx context.Context, req TranscriptRequest, w models.TimeWindow) (models.Segment, error) {
	wavPath, err := a.extractor.Extract(ctx, req.Workspace, req.MediaPath, w.Start, w.Duration)
	if err != nil {
		return models.Segment{}, err
	}
	defer func() {
		if err := req.Workspace.Release(wavPath); err != nil {
			a.logger.Warn(ctx, "Failed to release %s: %v", wavPath, err)
		}
	}()

	text, err := a.transcriber.Transcribe(ctx, req.Tier, wavPath, req.Hint)
	if err != nil {
		return models.Segment{}, err
	}

	return models.Segment{Start: w.Start, Text: strings.TrimSpace(text)}, nil
}

// skippable reports whether a window error leaves the job running.
func skippable(err error) bool {
	return errors.Is(err, models.ErrExtractionFailed) || errors.Is(err, models.ErrTranscriptionFailed)
}

func progressOrNop(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(Update) {}
	}
	return fn
}
