// Package main is the lampd entrypoint: ingestion scheduler plus device
// API, configured entirely from the environment.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/surflamp/lampd/internal/app"
	"github.com/surflamp/lampd/internal/log"
	"github.com/surflamp/lampd/pkg/config"
)

func main() {
	cfg, errs := config.LoadFromEnv()
	if err := log.Init(cfg.Debug, cfg.LogFile); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	for _, e := range errs {
		log.Errorw("invalid configuration", "error", e)
	}
	if len(errs) > 0 {
		os.Exit(1)
	}

	application := app.New(cfg, log.GetSugaredLogger())
	if err := application.Run(context.Background()); err != nil {
		log.Errorw("application error", "error", err)
		os.Exit(1)
	}
}
