package transcriber

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Transcribe runs the tier's model over one artifact. Calls are serialized;
// whisper models are not safe for concurrent use and one job runs at a time.
func (t *implTranscriber) Transcribe(ctx context.Context, tier models.Tier, wavPath, hint string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	engine, err := t.engine(ctx, tier)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrTranscriptionFailed, err)
	}

	started := time.Now()
	text, err := engine.Transcribe(ctx, wavPath, hint)
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrTranscriptionFailed, err)
	}

	t.logger.Debug(ctx, "Transcribed %s in %s", wavPath, time.Since(started).Round(time.Millisecond))
	return text, nil
}

// engine returns the cached engine for tier, loading it on a miss.
func (t *implTranscriber) engine(ctx context.Context, tier models.Tier) (Engine, error) {
	if e, ok := t.engines.Get(tier); ok {
		return e, nil
	}

	t.logger.Info(ctx, "Loading %s model (%s)", tier, tier.ModelName())
	e, err := t.open(tier)
	if err != nil {
		return nil, err
	}
	t.engines.Add(tier, e)
	return e, nil
}

func (t *implTranscriber) openEngine(tier models.Tier) (Engine, error) {
	if tier.ModelName() == "" {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidTier, tier)
	}
	if !t.catalog.Downloaded(tier) {
		return nil, fmt.Errorf("model %s not found in %s (run: recap models pull %s)",
			modelFile(tier.ModelName()), t.cfg.Whisper.ModelsDir, tier)
	}

	modelPath := t.catalog.Path(tier)
	switch t.cfg.Whisper.Backend {
	case "cpp":
		return newCPPEngine(t.fs, modelPath, t.cfg.Whisper.Language, t.cfg.Whisper.Threads)
	default:
		// The binary runs inside the job workspace, so the model path must
		// not depend on the working directory.
		absModel, err := filepath.Abs(modelPath)
		if err != nil {
			return nil, fmt.Errorf("resolve model path: %w", err)
		}
		return &cliEngine{
			binary:    t.cfg.Whisper.BinaryPath,
			modelPath: absModel,
			language:  t.cfg.Whisper.Language,
			threads:   t.cfg.Whisper.Threads,
			fs:        t.fs,
			executor:  t.executor,
		}, nil
	}
}

// Close unloads the cached model.
func (t *implTranscriber) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.engines.Purge()
	return nil
}
