// Package main запускает зеркало tweettoot.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tweettoot/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
