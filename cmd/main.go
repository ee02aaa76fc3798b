package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/crate/internal/shared"
)

const configFile = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(".env"); err != nil {
		logger.Warn("ignoring .env", "error", err)
	}

	config, err := shared.LoadConfig(configFile)
	if err != nil {
		if !errors.Is(err, shared.ErrMissingConfig) {
			logger.Warn("failed to load config, using defaults", "error", err)
		}
		config = shared.DefaultConfig()
	}
	config.ApplyEnv(os.LookupEnv)

	if err := config.Validate(); err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	level, _ := shared.ParseLevel(config.Log.Level)
	shared.SetLogLevel(logger, level)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configFile,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := runner.app().Run(ctx, os.Args); err != nil {
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
