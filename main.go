// ./main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/scalpel-e2e/cmd"
)

// Allows mocking os.Exit in tests.
var osExit = os.Exit

// main is the entry point for the scalpel-e2e CLI.
func main() {
	// Set up a context that listens for interrupt signals (SIGINT, SIGTERM) so
	// an interrupted run still closes its browser.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			osExit(0)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		osExit(1)
	}
}
