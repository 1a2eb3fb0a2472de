package media

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"
	"github.com/spf13/afero"
)

// ValidateWAV checks the artifact header: RIFF/WAVE, mono and the expected
// sample rate.
func ValidateWAV(fs afero.Fs, path string, sampleRate int) error {
	f, err := fs.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return errors.New("invalid or empty wav")
	}
	if dec.NumChans != 1 {
		return fmt.Errorf("wav has %d channels, want mono", dec.NumChans)
	}
	if int(dec.SampleRate) != sampleRate {
		return fmt.Errorf("wav sample rate %d, want %d", dec.SampleRate, sampleRate)
	}
	return nil
}

// ReadSamples decodes a mono PCM WAV into float32 samples in [-1, 1].
func ReadSamples(fs afero.Fs, path string) ([]float32, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode pcm: %w", err)
	}
	if buf == nil || len(buf.Data) == 0 {
		return nil, errors.New("empty wav buffer")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float32(v) / scale
	}
	return samples, nil
}
