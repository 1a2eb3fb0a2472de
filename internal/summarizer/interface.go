package summarizer

import "context"

// Summarizer condenses one block of transcript text. Length bounds are
// passed to the model as guidance only.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
