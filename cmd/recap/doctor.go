package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/logger"
	"github.com/nguyentantai21042004/recap-flow/internal/media"
	"github.com/nguyentantai21042004/recap-flow/internal/transcriber"
	"github.com/nguyentantai21042004/recap-flow/pkg/executor"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the external tools and models a job needs",
		Args:  cobra.NoArgs,
		RunE:  runDoctor,
	}
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	exec := executor.New()
	m := media.New(cfg, fs, exec, logger.Nop())
	catalog := transcriber.NewCatalog(fs, cfg.Whisper.ModelsDir)

	ok := true
	fmt.Println()
	fmt.Println("Toolchain:")
	fmt.Println()

	for _, st := range m.Status() {
		if st.Found {
			fmt.Printf("  %-14s found (%s)\n", st.Name+":", st.Path)
		} else {
			fmt.Printf("  %-14s not found\n", st.Name+":")
			ok = false
		}
	}

	switch cfg.Whisper.Backend {
	case "cli":
		if path, err := exec.LookPath(cfg.Whisper.BinaryPath); err == nil {
			fmt.Printf("  %-14s found (%s)\n", cfg.Whisper.BinaryPath+":", path)
		} else {
			fmt.Printf("  %-14s not found\n", cfg.Whisper.BinaryPath+":")
			ok = false
		}
	default:
		fmt.Printf("  %-14s in-process (%s backend)\n", "whisper:", cfg.Whisper.Backend)
	}

	tier := cfg.Tier()
	if catalog.Downloaded(tier) {
		fmt.Printf("  %-14s %s\n", "model:", catalog.Path(tier))
	} else {
		fmt.Printf("  %-14s %s missing (run: recap models pull %s)\n", "model:", catalog.Path(tier), tier)
		ok = false
	}

	if len(cfg.Gemini.APIKeys) > 0 {
		fmt.Printf("  %-14s %d key(s) configured\n", "gemini:", len(cfg.Gemini.APIKeys))
	} else {
		fmt.Printf("  %-14s no API key, summaries disabled (use --no-summary)\n", "gemini:")
	}
	fmt.Println()

	if !ok {
		return fmt.Errorf("toolchain incomplete")
	}
	return nil
}
