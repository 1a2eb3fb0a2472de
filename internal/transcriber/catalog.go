package transcriber

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

const defaultModelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main"

// Approximate sizes of the non-quantized (F16) ggml models.
var modelSizes = map[string]int64{
	"base":   142 * 1024 * 1024,
	"small":  466 * 1024 * 1024,
	"medium": 1500 * 1024 * 1024,
}

// ModelInfo describes the model backing one tier.
type ModelInfo struct {
	Tier       models.Tier
	Name       string
	File       string
	Size       int64
	Downloaded bool
}

// Catalog locates and downloads whisper.cpp models. Only non-quantized
// ggml-<name>.bin files are used, never the quantized -q variants.
type Catalog struct {
	fs      afero.Fs
	dir     string
	baseURL string
	client  *http.Client
}

// NewCatalog creates a catalog over dir.
func NewCatalog(fs afero.Fs, dir string) *Catalog {
	return &Catalog{
		fs:      fs,
		dir:     dir,
		baseURL: defaultModelBaseURL,
		client:  http.DefaultClient,
	}
}

func modelFile(name string) string {
	return fmt.Sprintf("ggml-%s.bin", name)
}

// Path returns where the tier's model lives.
func (c *Catalog) Path(tier models.Tier) string {
	return filepath.Join(c.dir, modelFile(tier.ModelName()))
}

// Downloaded reports whether the tier's model file exists.
func (c *Catalog) Downloaded(tier models.Tier) bool {
	ok, err := afero.Exists(c.fs, c.Path(tier))
	return err == nil && ok
}

// Models lists every tier with its model and download state.
func (c *Catalog) Models() []ModelInfo {
	infos := make([]ModelInfo, 0, len(models.Tiers()))
	for _, tier := range models.Tiers() {
		name := tier.ModelName()
		infos = append(infos, ModelInfo{
			Tier:       tier,
			Name:       name,
			File:       modelFile(name),
			Size:       modelSizes[name],
			Downloaded: c.Downloaded(tier),
		})
	}
	return infos
}

// Download fetches the tier's model into the catalog dir. The body is written
// to a .tmp file and renamed on success, so an interrupted download never
// leaves a truncated model behind.
func (c *Catalog) Download(ctx context.Context, tier models.Tier, progress func(downloaded, total int64)) error {
	name := tier.ModelName()
	if name == "" {
		return fmt.Errorf("%w: %q", models.ErrInvalidTier, tier)
	}

	if err := c.fs.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create models dir: %w", err)
	}

	url := c.baseURL + "/" + modelFile(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model: HTTP %d", resp.StatusCode)
	}

	destPath := c.Path(tier)
	tempPath := destPath + ".tmp"

	out, err := c.fs.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", tempPath, err)
	}

	success := false
	defer func() {
		out.Close()
		if !success {
			c.fs.Remove(tempPath)
		}
	}()

	w := &progressWriter{w: out, total: resp.ContentLength, progress: progress}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("write model: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close model: %w", err)
	}
	if err := c.fs.Rename(tempPath, destPath); err != nil {
		return fmt.Errorf("install model: %w", err)
	}

	success = true
	return nil
}

type progressWriter struct {
	w          io.Writer
	downloaded int64
	total      int64
	progress   func(downloaded, total int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.downloaded += int64(n)
	if p.progress != nil {
		p.progress(p.downloaded, p.total)
	}
	return n, err
}
