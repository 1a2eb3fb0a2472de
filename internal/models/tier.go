package models

import (
	"fmt"
	"strings"
	"time"
)

// Tier is the transcription quality selector.
type Tier string

const (
	TierFast     Tier = "fast"
	TierBalanced Tier = "balanced"
	TierBest     Tier = "best"
)

// tierModels maps each tier to a non-quantized whisper.cpp model name.
var tierModels = map[Tier]string{
	TierFast:     "base",
	TierBalanced: "small",
	TierBest:     "medium",
}

// Tiers returns every tier, fastest first.
func Tiers() []Tier {
	return []Tier{TierFast, TierBalanced, TierBest}
}

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierModels[t]; !ok {
		return "", fmt.Errorf("%w: %q (use fast, balanced or best)", ErrInvalidTier, s)
	}
	return t, nil
}

// ModelName returns the whisper.cpp model backing the tier.
func (t Tier) ModelName() string {
	return tierModels[t]
}

// ChunkDurations lists the selectable audio window sizes.
var ChunkDurations = []time.Duration{
	30 * time.Second,
	60 * time.Second,
	120 * time.Second,
	300 * time.Second,
}

// ParseChunkDuration validates a chunk size given in seconds.
func ParseChunkDuration(seconds int) (time.Duration, error) {
	d := time.Duration(seconds) * time.Second
	for _, allowed := range ChunkDurations {
		if d == allowed {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %ds (use 30, 60, 120 or 300)", ErrInvalidChunkDuration, seconds)
}
