package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Root().Run(ctx, os.Args); err != nil {
		if cause := context.Cause(ctx); cause != nil {
			slog.Info("shutting down", "cause", cause)
		} else {
			slog.Error("application error", "err", err)
			os.Exit(1)
		}
	}
}
