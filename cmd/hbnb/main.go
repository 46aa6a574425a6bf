package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ferdiebergado/hbnb/internal/app"
	errx "github.com/ferdiebergado/hbnb/internal/pkg/error"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := app.Run(ctx, os.Args[1:], os.Stdout); err != nil {
		stop()
		if errx.IsContextError(err) {
			os.Exit(130)
		}
		slog.Error("Command failed.", "reason", err)
		os.Exit(1)
	}
}
