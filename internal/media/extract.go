package media

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Extract decodes [start, start+duration) of path to 16-bit mono PCM at the
// configured sample rate. The artifact is tracked by ws before ffmpeg runs,
// so a half-written file is still swept by ws.Close.
func (m *implMedia) Extract(ctx context.Context, ws Workspace, path string, start, duration time.Duration) (string, error) {
	out, err := ws.Track(fmt.Sprintf("chunk-%09d.wav", start.Milliseconds()))
	if err != nil {
		return "", &models.ExtractionError{Start: start, Duration: duration, Err: err}
	}

	// -ss before -i seeks on the input, which is fast on long recordings.
	// -vn drops video, -ac 1 -ar 16000 -c:a pcm_s16le is what whisper expects.
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-ss", seconds(start),
		"-t", seconds(duration),
		"-i", path,
		"-vn",
		"-ac", "1",
		"-ar", strconv.Itoa(m.cfg.FFmpeg.SampleRate),
		"-c:a", "pcm_s16le",
		"-y",
		out,
	}

	m.logger.Debug(ctx, "Extracting %s+%s from %s", models.FormatTimestamp(start), duration, path)
	if _, err := m.executor.Execute(ctx, m.cfg.FFmpeg.FFmpegPath, args...); err != nil {
		m.discard(ctx, ws, out)
		return "", &models.ExtractionError{Start: start, Duration: duration, Err: fmt.Errorf("ffmpeg: %w", err)}
	}

	if err := ValidateWAV(m.fs, out, m.cfg.FFmpeg.SampleRate); err != nil {
		m.discard(ctx, ws, out)
		return "", &models.ExtractionError{Start: start, Duration: duration, Err: err}
	}

	return out, nil
}

// discard drops a partial artifact; leftovers are still swept by ws.Close.
func (m *implMedia) discard(ctx context.Context, ws Workspace, path string) {
	if err := ws.Release(path); err != nil {
		m.logger.Warn(ctx, "Failed to discard partial artifact %s: %v", path, err)
	}
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
