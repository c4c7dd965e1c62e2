package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/toyz/ifacegen/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	observability.Sync()
	os.Exit(code)
}
