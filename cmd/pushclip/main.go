package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/donfanning/pushclip/internal/buildinfo"
	"github.com/donfanning/pushclip/internal/cli"
	"github.com/donfanning/pushclip/internal/config"
	"github.com/donfanning/pushclip/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg, log)
	if err != nil {
		log.Error(ctx, "initialization failed", "error", err)
		os.Exit(1)
	}

	err = app.Dispatch(ctx, cli.Command(os.Args), cli.CommandArgs(os.Args))
	app.Close()
	if err != nil {
		log.Error(ctx, "command failed", "error", err)
		os.Exit(1)
	}
}
