package main

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = "config.yaml"

var (
	// Global flags
	configFlag   string
	logLevelFlag string
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "recap",
		Short: "Transcribe and summarize long recordings",
		Long: `recap turns a video or audio recording into a transcript and a summary.

The media is cut into fixed windows, each window is transcribed locally
with whisper.cpp, and the transcript is summarized window by window.
A running job can be cancelled at any time with Ctrl+C.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", defaultConfigPath, "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override the log level: debug, info, warn, error")

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newDoctorCmd())

	return rootCmd
}
