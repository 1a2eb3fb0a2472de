//go:build !whisper_cpp

package transcriber

import (
	"errors"

	"github.com/spf13/afero"
)

// newCPPEngine is unavailable without cgo bindings; build with -tags whisper_cpp.
func newCPPEngine(fs afero.Fs, modelPath, language string, threads int) (Engine, error) {
	return nil, errors.New("cpp backend not compiled in (rebuild with -tags whisper_cpp or set whisper.backend: cli)")
}
