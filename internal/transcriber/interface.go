package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Transcriber turns one WAV artifact into text using the model of tier.
// Models are loaded on first use and kept for the life of the process; a
// request for another tier replaces the loaded one.
type Transcriber interface {
	Transcribe(ctx context.Context, tier models.Tier, wavPath, hint string) (string, error)
	Close() error
}

// Engine is one loaded speech-to-text model.
type Engine interface {
	Transcribe(ctx context.Context, wavPath, hint string) (string, error)
	Close() error
}
