package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

// cliEngine runs the whisper.cpp command line binary once per artifact.
type cliEngine struct {
	binary    string
	modelPath string
	language  string
	threads   int
	fs        afero.Fs
	executor  executor.Executor
}

// Transcribe runs whisper in the artifact's directory, so the text output
// lands next to the artifact inside the job workspace.
func (e *cliEngine) Transcribe(ctx context.Context, wavPath, hint string) (string, error) {
	dir := filepath.Dir(wavPath)
	wavName := filepath.Base(wavPath)
	outputBase := strings.TrimSuffix(wavName, filepath.Ext(wavName))

	// -otxt -of: plain text output at <base>.txt
	// -tp 0 -nf: greedy decoding at temperature 0 without fallback, so a rerun
	// gives the same text
	// -ng -nfa: CPU compute without flash attention, so GPU builds do not
	// drift from CPU builds
	// -np: keep stderr quiet unless something fails
	args := []string{
		"-m", e.modelPath,
		"-f", wavName,
		"-otxt",
		"-of", outputBase,
		"-l", e.language,
		"-t", strconv.Itoa(e.threads),
		"-tp", "0",
		"-nf",
		"-ng",
		"-nfa",
		"-np",
	}
	if hint != "" {
		args = append(args, "--prompt", hint)
	}

	if _, err := e.executor.ExecuteInDir(ctx, dir, e.binary, args...); err != nil {
		return "", fmt.Errorf("whisper: %w", err)
	}

	txtPath := filepath.Join(dir, outputBase+".txt")
	data, err := afero.ReadFile(e.fs, txtPath)
	if err != nil {
		return "", fmt.Errorf("read whisper output: %w", err)
	}
	if err := e.fs.Remove(txtPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("remove whisper output: %w", err)
	}

	return cleanText(string(data)), nil
}

func (e *cliEngine) Close() error { return nil }

// cleanText flattens whisper's one-line-per-segment output and drops the
// bytes of multibyte tokens whisper split mid-sequence.
func cleanText(s string) string {
	return strings.Join(strings.Fields(strings.ToValidUTF8(s, "")), " ")
}
