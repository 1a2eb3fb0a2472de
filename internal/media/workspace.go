package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// workspacePrefix names every job temp directory, so SweepStale can find
// directories left behind by a crashed process.
const workspacePrefix = "recap-"

type implWorkspace struct {
	fs  afero.Fs
	dir string

	mu        sync.Mutex
	artifacts map[string]struct{}
	closed    bool
}

// NewWorkspace creates <root>/recap-<jobID>-* on fs. An empty root uses the
// system temp directory.
func NewWorkspace(fs afero.Fs, root, jobID string) (Workspace, error) {
	if root != "" {
		if err := fs.MkdirAll(root, 0755); err != nil {
			return nil, fmt.Errorf("create temp root: %w", err)
		}
	}

	dir, err := afero.TempDir(fs, root, workspacePrefix+jobID+"-")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	return &implWorkspace{
		fs:        fs,
		dir:       dir,
		artifacts: make(map[string]struct{}),
	}, nil
}

func (w *implWorkspace) Dir() string {
	return w.dir
}

// Track reserves an artifact path inside the workspace.
func (w *implWorkspace) Track(name string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return "", errors.New("workspace closed")
	}

	path := filepath.Join(w.dir, filepath.Base(name))
	w.artifacts[path] = struct{}{}
	return path, nil
}

// Release deletes one artifact. A file that was never written is not an error.
func (w *implWorkspace) Release(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	delete(w.artifacts, path)
	if err := w.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release %s: %w", path, err)
	}
	return nil
}

// Tracked returns the artifacts not yet released, sorted.
func (w *implWorkspace) Tracked() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.artifacts))
	for p := range w.artifacts {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Close removes every remaining artifact and the directory. It keeps going
// past individual failures and reports them joined. Safe to call twice.
func (w *implWorkspace) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for path := range w.artifacts {
		if err := w.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
		}
	}
	w.artifacts = nil

	if err := w.fs.RemoveAll(w.dir); err != nil {
		errs = append(errs, fmt.Errorf("remove workspace %s: %w", w.dir, err))
	}
	return errors.Join(errs...)
}

// SweepStale removes recap workspaces under root left by an earlier process.
// Only directories named recap-<uuid>-* are considered. Workspaces touched
// within olderThan may belong to another running recap process and are kept.
// Returns the number removed.
func SweepStale(fs afero.Fs, root string, olderThan time.Duration) (int, error) {
	if root == "" {
		root = os.TempDir()
	}

	matches, err := afero.Glob(fs, filepath.Join(root, workspacePrefix+"*"))
	if err != nil {
		return 0, fmt.Errorf("sweep %s: %w", root, err)
	}

	removed := 0
	var errs []error
	for _, m := range matches {
		if !isWorkspaceName(filepath.Base(m)) {
			continue
		}
		info, err := fs.Stat(m)
		if err != nil || !info.IsDir() || time.Since(info.ModTime()) < olderThan {
			continue
		}
		if err := fs.RemoveAll(m); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// isWorkspaceName matches recap-<job uuid>-<random suffix>.
func isWorkspaceName(name string) bool {
	rest, ok := strings.CutPrefix(name, workspacePrefix)
	if !ok || len(rest) < 38 || rest[36] != '-' {
		return false
	}
	_, err := uuid.Parse(rest[:36])
	return err == nil
}
