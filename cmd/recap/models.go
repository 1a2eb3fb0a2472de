package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
	"github.com/nguyentantai21042004/recap-flow/internal/transcriber"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage whisper.cpp models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the model behind each tier",
		Args:  cobra.NoArgs,
		RunE:  runModelsList,
	}

	pullCmd := &cobra.Command{
		Use:   "pull <tier>",
		Short: "Download the model for a tier",
		Args:  cobra.ExactArgs(1),
		RunE:  runModelsPull,
	}

	cmd.AddCommand(listCmd, pullCmd)
	return cmd
}

func runModelsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	catalog := transcriber.NewCatalog(afero.NewOsFs(), cfg.Whisper.ModelsDir)

	fmt.Println()
	fmt.Printf("  %-10s %-8s %-20s %-10s %s\n", "Tier", "Model", "File", "Size", "Status")
	fmt.Println("  " + strings.Repeat("-", 66))

	for _, m := range catalog.Models() {
		status := "not downloaded"
		if m.Downloaded {
			status = "downloaded"
		}
		if m.Tier == cfg.Tier() {
			status += " (default)"
		}
		fmt.Printf("  %-10s %-8s %-20s %-10s %s\n", m.Tier, m.Name, m.File, formatSize(m.Size), status)
	}
	fmt.Println()

	return nil
}

func runModelsPull(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	tier, err := models.ParseTier(args[0])
	if err != nil {
		return err
	}

	catalog := transcriber.NewCatalog(afero.NewOsFs(), cfg.Whisper.ModelsDir)
	if catalog.Downloaded(tier) {
		fmt.Printf("Model for tier '%s' is already downloaded: %s\n", tier, catalog.Path(tier))
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("Downloading %s model '%s'...\n", tier, tier.ModelName())
	err = catalog.Download(ctx, tier, func(downloaded, total int64) {
		if total > 0 {
			pct := float64(downloaded) / float64(total) * 100
			fmt.Printf("\rProgress: %.1f%% (%s / %s)", pct, formatSize(downloaded), formatSize(total))
		} else {
			fmt.Printf("\rDownloaded: %s", formatSize(downloaded))
		}
	})
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Printf("Model saved to %s\n", catalog.Path(tier))
	return nil
}

func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.0f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.0f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
