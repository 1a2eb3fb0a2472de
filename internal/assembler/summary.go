package assembler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// TextWindows slices text left to right into windows of size characters.
// The last window may be shorter. A byte that is not valid UTF-8 counts as
// one character and is kept as is, so joining the windows gives back text
// exactly.
func TextWindows(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	starts := make([]int, 0, len(text))
	for i := 0; i < len(text); {
		starts = append(starts, i)
		_, width := utf8.DecodeRuneInString(text[i:])
		i += width
	}

	chunks := lo.Chunk(starts, size)
	return lo.Map(chunks, func(c []int, i int) string {
		end := len(text)
		if i+1 < len(chunks) {
			end = chunks[i+1][0]
		}
		return text[c[0]:end]
	})
}

// Assemble never calls the summarizer for a blank transcript. A window whose
// summarization fails is skipped and left out of the summary.
func (a *implSummaries) Assemble(ctx context.Context, transcript string, stop <-chan struct{}, onProgress ProgressFunc) (SummaryResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return SummaryResult{}, nil
	}

	windows := TextWindows(transcript, a.windowSize)
	result := SummaryResult{Windows: len(windows)}
	report := progressOrNop(onProgress)
	parts := make([]string, 0, len(windows))

	for i, text := range windows {
		if stopped(stop) {
			a.logger.Info(ctx, "Summarization stopped before window %d/%d", i+1, len(windows))
			result.Summary = strings.Join(parts, " ")
			return result, models.ErrCancelledByUser
		}

		report(Update{
			Fraction: float64(i) / float64(len(windows)),
			Step:     fmt.Sprintf("Summarizing part %d/%d", i+1, len(windows)),
		})

		part, err := a.summarizer.Summarize(ctx, text)
		if err != nil {
			if !errors.Is(err, models.ErrSummarizationFailed) {
				result.Summary = strings.Join(parts, " ")
				return result, err
			}
			result.Skipped++
			a.logger.Warn(ctx, "Skipping summary part %d/%d: %v", i+1, len(windows), err)
			report(Update{
				Fraction: float64(i) / float64(len(windows)),
				Step:     fmt.Sprintf("Skipped summary part %d/%d", i+1, len(windows)),
				Err:      err,
			})
			continue
		}

		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	result.Summary = strings.Join(parts, " ")
	report(Update{Fraction: 1, Step: "Summary finished"})
	return result, nil
}
