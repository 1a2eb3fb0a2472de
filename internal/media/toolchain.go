package media

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Status looks up ffmpeg and ffprobe.
func (m *implMedia) Status() []ToolStatus {
	names := []string{m.cfg.FFmpeg.FFmpegPath, m.cfg.FFmpeg.FFprobePath}
	statuses := make([]ToolStatus, 0, len(names))
	for _, name := range names {
		st := ToolStatus{Name: name}
		if path, err := m.executor.LookPath(name); err == nil {
			st.Path = path
			st.Found = true
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// Check fails with ErrToolchainMissing naming every missing tool.
func (m *implMedia) Check() error {
	var missing []string
	for _, st := range m.Status() {
		if !st.Found {
			missing = append(missing, st.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s not found in PATH", models.ErrToolchainMissing, strings.Join(missing, ", "))
	}
	return nil
}
