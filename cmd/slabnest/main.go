// SlabNest - stone slab nesting for benchtop fabrication.
//
// Build:
//
//	go build -o slabnest ./cmd/slabnest
//
// Typical use:
//
//	slabnest optimize kitchen.csv --pdf kitchen.pdf --save "Smith kitchen"
//	slabnest compare kitchen.csv
//	slabnest jobs list
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/piwi3910/SlabNest/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		observability.GetLogger().Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		observability.Sync()
		stop()
		os.Exit(1)
	}
}
