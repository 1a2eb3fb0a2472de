package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

type Config struct {
	Whisper  WhisperConfig  `yaml:"whisper"`
	FFmpeg   FFmpegConfig   `yaml:"ffmpeg"`
	Chunking ChunkingConfig `yaml:"chunking"`
	Summary  SummaryConfig  `yaml:"summary"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Paths    PathsConfig    `yaml:"paths"`
	Logging  LoggingConfig  `yaml:"logging"`
	Output   OutputConfig   `yaml:"output"`
}

type WhisperConfig struct {
	BinaryPath string `yaml:"binary_path"`
	ModelsDir  string `yaml:"models_dir" validate:"required"`
	Backend    string `yaml:"backend" validate:"oneof=cli cpp"`
	Tier       string `yaml:"tier" validate:"oneof=fast balanced best"`
	Language   string `yaml:"language" validate:"required"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads" validate:"gte=1"`
}

type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path" validate:"required"`
	FFprobePath string `yaml:"ffprobe_path" validate:"required"`
	SampleRate  int    `yaml:"sample_rate" validate:"eq=16000"`
}

type ChunkingConfig struct {
	ChunkSeconds    int `yaml:"chunk_seconds" validate:"oneof=30 60 120 300"`
	TextWindowChars int `yaml:"text_window_chars" validate:"gt=0"`
}

type SummaryConfig struct {
	MinLength int `yaml:"min_length" validate:"gte=0"`
	MaxLength int `yaml:"max_length" validate:"gtfield=MinLength"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model" validate:"required"`
	APIKeys []string `yaml:"api_keys"`
}

type PathsConfig struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output" validate:"required"`
	Temp   string `yaml:"temp"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

type OutputConfig struct {
	Docx bool `yaml:"docx"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate fills defaults for optional settings and then checks every field.
func (c *Config) Validate() error {
	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.ModelsDir == "" {
		c.Whisper.ModelsDir = "models"
	}
	if c.Whisper.Backend == "" {
		c.Whisper.Backend = "cli"
	}
	if c.Whisper.Tier == "" {
		c.Whisper.Tier = string(models.TierFast)
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "auto"
	}
	if c.Whisper.Prompt == "" {
		c.Whisper.Prompt = "This is a meeting."
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 4
	}
	if c.FFmpeg.FFmpegPath == "" {
		c.FFmpeg.FFmpegPath = "ffmpeg"
	}
	if c.FFmpeg.FFprobePath == "" {
		c.FFmpeg.FFprobePath = "ffprobe"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.Chunking.ChunkSeconds == 0 {
		c.Chunking.ChunkSeconds = 60
	}
	if c.Chunking.TextWindowChars == 0 {
		c.Chunking.TextWindowChars = 1000
	}
	if c.Summary.MaxLength == 0 {
		c.Summary.MinLength = 30
		c.Summary.MaxLength = 150
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Tier returns the validated transcription tier.
func (c *Config) Tier() models.Tier {
	tier, err := models.ParseTier(c.Whisper.Tier)
	if err != nil {
		return models.TierFast
	}
	return tier
}

// ChunkDuration returns the configured audio window size.
func (c *Config) ChunkDuration() time.Duration {
	return time.Duration(c.Chunking.ChunkSeconds) * time.Second
}
