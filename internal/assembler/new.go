package assembler

import (
	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/summarizer"
	"github.com/nguyentantai21042004/recap-flow/internal/transcriber"
)

// DefaultTextWindow is the TextWindow size in runes.
const DefaultTextWindow = 1000

type implTranscripts struct {
	extractor   media.Extractor
	transcriber transcriber.Transcriber
	logger      logger.Logger
}

// NewTranscripts creates a TranscriptAssembler.
func NewTranscripts(ext media.Extractor, tr transcriber.Transcriber, log logger.Logger) TranscriptAssembler {
	return &implTranscripts{
		extractor:   ext,
		transcriber: tr,
		logger:      log,
	}
}

type implSummaries struct {
	summarizer summarizer.Summarizer
	windowSize int
	logger     logger.Logger
}

// NewSummaries creates a SummaryAssembler slicing the transcript into
// windows of windowSize runes. A non-positive size uses DefaultTextWindow.
func NewSummaries(s summarizer.Summarizer, windowSize int, log logger.Logger) SummaryAssembler {
	if windowSize <= 0 {
		windowSize = DefaultTextWindow
	}
	return &implSummaries{
		summarizer: s,
		windowSize: windowSize,
		logger:     log,
	}
}

// stopped reports whether stop has been closed. A nil channel never stops.
func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}
