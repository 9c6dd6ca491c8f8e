package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/pvisualizer/internal/buildinfo"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/config"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	app, err := devapi.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
