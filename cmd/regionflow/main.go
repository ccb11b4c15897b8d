// Command regionflow answers control-flow questions about regions of
// Go source: entry points, exit points and boundary reachability.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/regionflow/regionflow/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "regionflow:", err)
		os.Exit(1)
	}
}
