package media

import (
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

type implMedia struct {
	cfg      *config.Config
	fs       afero.Fs
	executor executor.Executor
	logger   logger.Logger
}

// Media bundles the prober, the extractor and the toolchain check, all of
// which shell out to ffmpeg/ffprobe.
type Media interface {
	Prober
	Extractor
	Toolchain
}

// New creates the ffmpeg-backed media component. fs must be the filesystem
// ffmpeg writes to; pass afero.NewOsFs() outside of tests.
func New(cfg *config.Config, fs afero.Fs, exec executor.Executor, log logger.Logger) Media {
	return &implMedia{
		cfg:      cfg,
		fs:       fs,
		executor: exec,
		logger:   log,
	}
}
