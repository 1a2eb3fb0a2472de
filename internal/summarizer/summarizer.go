package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

const summaryPrompt = `You are condensing part of a meeting transcript.
Write a plain-text summary of the passage below in %d to %d words.
Keep names, decisions, numbers and action items. Do not add headings,
bullet points or any commentary about the task.

Passage:
---
%s
---`

// Summarize condenses text. Failures wrap ErrSummarizationFailed.
func (s *implSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	summary, err := s.withKeyRotation(ctx, s.buildPrompt(text))
	if err != nil {
		return "", fmt.Errorf("%w: %w", models.ErrSummarizationFailed, err)
	}
	return strings.TrimSpace(summary), nil
}

func (s *implSummarizer) buildPrompt(text string) string {
	return fmt.Sprintf(summaryPrompt, s.minLength, s.maxLength, text)
}

// withKeyRotation tries each key at most once, moving on when a key is
// rate limited. Other errors fail immediately.
func (s *implSummarizer) withKeyRotation(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for range len(s.apiKeys) {
		key, idx := s.key()

		text, err := s.generate(ctx, key, prompt)
		if err == nil {
			return text, nil
		}
		if !isQuotaError(err) {
			return "", err
		}

		s.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
		s.rotateKey(idx)
		lastErr = err
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// callGemini sends the prompt with temperature 0 and returns the text parts.
func (s *implSummarizer) callGemini(ctx context.Context, key, prompt string) (string, error) {
	client, err := s.client(ctx, key)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	}
	result, err := client.Models.GenerateContent(ctx, s.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var b strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				b.WriteString(part.Text)
			}
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}

	return "", errors.New("empty response from Gemini")
}

// client returns the cached client for key.
func (s *implSummarizer) client(ctx context.Context, key string) (*genai.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.clients[key]; ok {
		return c, nil
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	s.clients[key] = c
	return c, nil
}

func (s *implSummarizer) key() (string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apiKeys[s.currentKey], s.currentKey
}

// rotateKey advances past idx unless another call already did.
func (s *implSummarizer) rotateKey(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentKey == idx {
		s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
