package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/invkeeper/internal/cli"
)

var buildVersion = "dev"

func main() {
	os.Exit(run())
}

// run cancels the context on SIGINT/SIGTERM so a rotation stops between files.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.Execute(ctx, buildVersion)
}
