package media

import (
	"context"
	"time"
)

// Prober reads the total duration of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (time.Duration, error)
}

// Extractor decodes one time window of a media file into a mono 16 kHz WAV
// artifact inside the given workspace. The caller releases the artifact.
type Extractor interface {
	Extract(ctx context.Context, ws Workspace, path string, start, duration time.Duration) (string, error)
}

// Toolchain checks that the external media tools are installed.
type Toolchain interface {
	Check() error
	Status() []ToolStatus
}

// Workspace is the scoped temp directory of one job. Every artifact written
// into it is tracked and removed by Release or Close.
type Workspace interface {
	Dir() string
	Track(name string) (string, error)
	Release(path string) error
	Tracked() []string
	Close() error
}

// ToolStatus is the lookup result of one external binary.
type ToolStatus struct {
	Name  string
	Path  string
	Found bool
}
