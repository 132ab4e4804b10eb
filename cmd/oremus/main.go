// Command oremus is the command-line client for prayer groups.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/oremus/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr, os.Getenv)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
