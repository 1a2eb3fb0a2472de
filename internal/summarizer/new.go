package summarizer

import (
	"context"
	"errors"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

// generateFunc sends one prompt with one API key.
type generateFunc func(ctx context.Context, key, prompt string) (string, error)

type implSummarizer struct {
	apiKeys   []string
	model     string
	minLength int
	maxLength int
	logger    logger.Logger
	generate  generateFunc

	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client
}

// New creates a Gemini Summarizer that rotates through the configured API keys.
func New(cfg *config.Config, log logger.Logger) (Summarizer, error) {
	if len(cfg.Gemini.APIKeys) == 0 {
		return nil, errors.New("no Gemini API keys configured (set GEMINI_API_KEYS)")
	}

	s := &implSummarizer{
		apiKeys:   cfg.Gemini.APIKeys,
		model:     cfg.Gemini.Model,
		minLength: cfg.Summary.MinLength,
		maxLength: cfg.Summary.MaxLength,
		logger:    log,
		clients:   make(map[string]*genai.Client),
	}
	s.generate = s.callGemini
	return s, nil
}
