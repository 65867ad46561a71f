// Command eventctl manages events on a running event manager server.
package main

import (
	"context"
	"eventManager/internal/lib/clock"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, clock.NewSystem())
	stop()

	os.Exit(code)
}
