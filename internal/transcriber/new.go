package transcriber

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// engineOpener loads the engine for a tier.
type engineOpener func(tier models.Tier) (Engine, error)

type implTranscriber struct {
	cfg      *config.Config
	fs       afero.Fs
	executor executor.Executor
	logger   logger.Logger
	catalog  *Catalog
	open     engineOpener

	mu      sync.Mutex
	engines *lru.Cache[models.Tier, Engine]
}

// New creates a Transcriber for the configured backend.
func New(cfg *config.Config, fs afero.Fs, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	t := &implTranscriber{
		cfg:      cfg,
		fs:       fs,
		executor: exec,
		logger:   log,
		catalog:  NewCatalog(fs, cfg.Whisper.ModelsDir),
	}
	t.open = t.openEngine

	// One slot: a tier change evicts and closes the previous model.
	cache, err := lru.NewWithEvict[models.Tier, Engine](1, t.evicted)
	if err != nil {
		return nil, fmt.Errorf("create model cache: %w", err)
	}
	t.engines = cache

	return t, nil
}

func (t *implTranscriber) evicted(tier models.Tier, e Engine) {
	if err := e.Close(); err != nil {
		t.logger.Warn(context.Background(), "Failed to close %s model: %v", tier, err)
		return
	}
	t.logger.Debug(context.Background(), "Unloaded %s model", tier)
}
