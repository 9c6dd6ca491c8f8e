package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pvisualizer/internal/client/cli"
	"github.com/dmitrijs2005/pvisualizer/internal/client/config"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "pv")
	cli.Register(commander)

	cfg, err := config.Bind(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	flag.Parse()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	status := commander.Execute(ctx, app)
	if err := app.Close(); err != nil {
		logger.Warn(ctx, "close", "error", err)
	}
	stop()
	os.Exit(int(status))
}
