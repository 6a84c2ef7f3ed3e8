package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hrpilot/internal/cli"
	"hrpilot/internal/config"
	"hrpilot/internal/errors"

	"github.com/joho/godotenv"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := config.ApplyVaultSecrets(ctx, cfg, logger); err != nil {
		logger.LogError(err, "Failed to load secrets from Vault")
		os.Exit(1)
	}

	prompts, err := config.NewPromptStore(cfg.AI.Prompts)
	if err != nil {
		logger.LogError(err, "Failed to load prompt overrides")
		os.Exit(1)
	}
	if cfg.AI.Prompts.Watch {
		watcher := config.NewPromptWatcher(prompts, cfg.AI.Prompts.DebounceDelay, func(tools []string) {
			logger.Info("Prompt overrides reloaded", "tools", tools)
		}, logger)
		if err := watcher.Start(); err != nil {
			logger.LogError(err, "Failed to start prompt watcher")
		} else {
			defer func() { _ = watcher.Stop() }()
		}
	}

	logger.Debug("Starting hrpilot",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"ai_provider", cfg.AI.Provider,
		"language", cfg.App.DefaultLanguage)

	if err := cli.Execute(ctx, cfg, logger, prompts); err != nil {
		logger.LogError(err, "Application execution failed")
		stop()
		os.Exit(1)
	}
}
