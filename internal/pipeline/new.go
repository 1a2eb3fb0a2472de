package pipeline

import (
	"sync"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/assembler"
	"github.com/nguyentantai21042004/recap-flow/internal/config"
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// eventBuffer bounds the progress channel. When a slow consumer lets it
// fill, the oldest event is dropped; consumers only render the latest.
const eventBuffer = 64

// Dependencies are the collaborators a Controller drives.
type Dependencies struct {
	FS          afero.Fs
	Prober      media.Prober
	Toolchain   media.Toolchain
	Transcripts assembler.TranscriptAssembler
	// Summaries may be nil to produce transcripts only.
	Summaries assembler.SummaryAssembler
	Logger    logger.Logger
}

type implController struct {
	cfg  *config.Config
	deps Dependencies

	events chan models.ProgressEvent

	mu       sync.Mutex
	job      models.Job
	stop     chan struct{}
	stopOnce *sync.Once
	done     chan struct{}
}

// New creates an idle Controller.
func New(cfg *config.Config, deps Dependencies) Controller {
	return &implController{
		cfg:    cfg,
		deps:   deps,
		events: make(chan models.ProgressEvent, eventBuffer),
		job:    models.Job{Phase: models.PhaseIdle},
	}
}
