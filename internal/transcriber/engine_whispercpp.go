//go:build whisper_cpp

package transcriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	whisperpkg "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/media"
)

// cppEngine runs whisper.cpp in process through the cgo bindings. The model
// stays loaded until Close. The bindings expose no GPU switch; link them
// against a CPU-only libwhisper to get the same numerics as the cli engine.
type cppEngine struct {
	model    whisperpkg.Model
	fs       afero.Fs
	language string
	threads  uint
}

func newCPPEngine(fs afero.Fs, modelPath, language string, threads int) (Engine, error) {
	m, err := whisperpkg.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if language == "" {
		language = "auto"
	}
	return &cppEngine{
		model:    m,
		fs:       fs,
		language: language,
		threads:  uint(max(threads, 1)),
	}, nil
}

func (e *cppEngine) Transcribe(ctx context.Context, wavPath, hint string) (string, error) {
	samples, err := media.ReadSamples(e.fs, wavPath)
	if err != nil {
		return "", err
	}

	wctx, err := e.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create context: %w", err)
	}
	wctx.SetThreads(e.threads)
	if err := wctx.SetLanguage(e.language); err != nil {
		return "", fmt.Errorf("set language %q: %w", e.language, err)
	}
	wctx.SetTemperature(0)
	if hint != "" {
		wctx.SetInitialPrompt(hint)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process audio: %w", err)
	}

	var parts []string
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return cleanText(strings.Join(parts, " ")), nil
}

func (e *cppEngine) Close() error {
	if e.model != nil {
		return e.model.Close()
	}
	return nil
}
