package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/docstruct/internal/structure"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration mistakes and 1 for everything else.
func exitCode(err error) int {
	if errors.Is(err, structure.ErrConfiguration) {
		return 2
	}
	return 1
}
