package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nguyentantai21042004/recap-flow/internal/models"
)

// exitCancelled follows the shell convention for a run stopped by SIGINT.
const exitCancelled = 130

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if errors.Is(err, models.ErrCancelledByUser) {
			fmt.Fprintln(os.Stderr, "Cancelled")
			os.Exit(exitCancelled)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
