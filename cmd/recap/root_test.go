package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"run", "watch", "models", "doctor"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered (err=%v)", name, err)
		}
	}

	cmd, _, err := root.Find([]string{"models", "pull"})
	if err != nil || cmd.Name() != "pull" {
		t.Errorf("models pull not registered (err=%v)", err)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("RECAP_LOG_LEVEL", "")

	t.Run("explicit missing file fails", func(t *testing.T) {
		root := newRootCmd()
		if err := root.ParseFlags([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}); err != nil {
			t.Fatal(err)
		}
		if _, err := loadConfig(root); err == nil {
			t.Error("loadConfig() should fail for an explicit missing file")
		}
	})

	t.Run("default path may be absent", func(t *testing.T) {
		t.Chdir(t.TempDir())
		root := newRootCmd()
		cfg, err := loadConfig(root)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Whisper.Tier != "fast" {
			t.Errorf("Tier = %q, want fast", cfg.Whisper.Tier)
		}
	})

	t.Run("explicit file with log level override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("whisper:\n  tier: best\n"), 0644); err != nil {
			t.Fatal(err)
		}

		root := newRootCmd()
		if err := root.ParseFlags([]string{"--config", path, "--log-level", "debug"}); err != nil {
			t.Fatal(err)
		}
		defer func() { logLevelFlag = "" }()

		cfg, err := loadConfig(root)
		if err != nil {
			t.Fatalf("loadConfig() error = %v", err)
		}
		if cfg.Whisper.Tier != "best" {
			t.Errorf("Tier = %q, want best", cfg.Whisper.Tier)
		}
		if cfg.Logging.Level != "debug" {
			t.Errorf("Level = %q, want debug", cfg.Logging.Level)
		}
	})
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{512, "512 B"},
		{2048, "2 KB"},
		{142 * 1024 * 1024, "142 MB"},
		{1536 * 1024 * 1024, "1.5 GB"},
	}

	for _, tt := range tests {
		if got := formatSize(tt.bytes); got != tt.want {
			t.Errorf("formatSize(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
