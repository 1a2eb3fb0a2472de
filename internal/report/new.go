package report

import (
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
)

type implWriter struct {
	fs        afero.Fs
	outputDir string
	docx      bool
	logger    logger.Logger
}

// New creates a report Writer. Text reports go through fs; the DOCX report,
// when enabled, is saved to the OS filesystem.
func New(cfg *config.Config, fs afero.Fs, log logger.Logger) Writer {
	return &implWriter{
		fs:        fs,
		outputDir: cfg.Paths.Output,
		docx:      cfg.Output.Docx,
		logger:    log,
	}
}
