package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// Delimiter separates the TRANSCRIPT and SUMMARY sections.
var Delimiter = strings.Repeat("-", 40)

// Format renders the plain-text report.
func Format(transcript, summary string) string {
	var b strings.Builder
	b.WriteString("TRANSCRIPT:\n\n")
	b.WriteString(transcript)
	b.WriteString("\n\n")
	b.WriteString(Delimiter)
	b.WriteString("\nSUMMARY:\n\n")
	b.WriteString(summary)
	b.WriteString("\n")
	return b.String()
}

// OutputPath returns <dir>/<media base>_summary<ext>.
func OutputPath(dir, mediaPath, ext string) string {
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
	return filepath.Join(dir, base+"_summary"+ext)
}

// WriteText writes the plain-text report to path on fs.
func WriteText(fs afero.Fs, path, transcript, summary string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := afero.WriteFile(fs, path, []byte(Format(transcript, summary)), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func (w *implWriter) Write(ctx context.Context, job models.Job, dest string) ([]string, error) {
	if dest == "" {
		dest = OutputPath(w.outputDir, job.MediaPath, ".txt")
	}

	if err := WriteText(w.fs, dest, job.Transcript.String(), job.Summary); err != nil {
		return nil, err
	}
	written := []string{dest}
	w.logger.Info(ctx, "Report saved: %s", dest)

	if w.docx {
		docxPath := strings.TrimSuffix(dest, filepath.Ext(dest)) + ".docx"
		title := strings.TrimSuffix(filepath.Base(job.MediaPath), filepath.Ext(job.MediaPath))
		if err := WriteDocx(docxPath, title, job.Transcript, job.Summary); err != nil {
			return written, fmt.Errorf("write docx: %w", err)
		}
		written = append(written, docxPath)
		w.logger.Info(ctx, "DOCX saved: %s", docxPath)
	}

	return written, nil
}
