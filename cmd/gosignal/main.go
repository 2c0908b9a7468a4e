// Package main is the entry point for the gosignal service.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jonesrussell/gosignal/internal/app"
	"github.com/jonesrussell/gosignal/internal/logger"
)

var (
	// version can be set at build time via -ldflags
	version = "dev"
)

const resubmitTimeout = 30 * time.Minute

func main() {
	var configPath string
	var resubmit bool
	flag.StringVar(&configPath, "config", "config.yml", "Path to configuration file")
	flag.BoolVar(&resubmit, "resubmit", false, "Resubmit every published URL to the search engines and exit")
	flag.Parse()

	// Create application
	application, err := app.New(app.Options{
		ConfigPath: configPath,
		Version:    version,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := application.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close application: %v\n", closeErr)
		}
	}()

	// Handle one-shot resubmit command
	if resubmit {
		ctx, cancel := context.WithTimeout(context.Background(), resubmitTimeout)
		defer cancel()

		total, resubmitErr := application.ResubmitAll(ctx)
		if resubmitErr != nil {
			application.Logger().Error("Failed to resubmit site URLs", logger.Error(resubmitErr))
			os.Exit(1)
		}

		application.Logger().Info("Resubmission completed", logger.Int("total_urls", total))
		return
	}

	// Run the application
	if runErr := application.Run(context.Background()); runErr != nil {
		application.Logger().Error("Application error", logger.Error(runErr))
		os.Exit(1)
	}
}
