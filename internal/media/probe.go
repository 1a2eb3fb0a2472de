package media

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// probeOutput is the subset of ffprobe's JSON we read.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Duration  string `json:"duration"`
	} `json:"streams"`
}

// Probe returns the media duration. Any failure is ErrMediaUnreadable.
func (m *implMedia) Probe(ctx context.Context, path string) (time.Duration, error) {
	// ffprobe -v quiet -print_format json -show_format -show_streams <input>
	out, err := m.executor.Execute(ctx, m.cfg.FFmpeg.FFprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w: %w", path, models.ErrMediaUnreadable, err)
	}

	duration, err := parseProbe([]byte(out))
	if err != nil {
		return 0, fmt.Errorf("probe %s: %w: %w", path, models.ErrMediaUnreadable, err)
	}

	m.logger.Debug(ctx, "Probed %s: duration %s", path, duration)
	return duration, nil
}

func parseProbe(data []byte) (time.Duration, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return 0, fmt.Errorf("decode ffprobe output: %w", err)
	}

	hasAudio := false
	streamDuration := ""
	for _, s := range out.Streams {
		if s.CodecType == "audio" {
			hasAudio = true
			if streamDuration == "" {
				streamDuration = s.Duration
			}
		}
	}
	if !hasAudio {
		return 0, fmt.Errorf("no audio stream")
	}

	raw := out.Format.Duration
	if raw == "" || raw == "N/A" {
		raw = streamDuration
	}
	if raw == "" || raw == "N/A" {
		return 0, fmt.Errorf("no duration metadata")
	}

	seconds, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", raw, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", raw)
	}

	return time.Duration(seconds * float64(time.Second)), nil
}
