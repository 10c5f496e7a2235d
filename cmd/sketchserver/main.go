// Command sketchserver serves the drawing persistence API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"plan-sketcher/internal/config"
	"plan-sketcher/internal/server"
	"plan-sketcher/internal/version"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	envFile := flag.String("env", ".env", "dotenv file with environment overrides")
	config.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintf(os.Stderr, "sketchserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyFlags(flag.CommandLine); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Log.Logger(os.Stderr)
	logger.Info("starting sketchserver", "version", version.String(), "backend", cfg.Store.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := cfg.Store.OpenStore(ctx, logger)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			logger.Warn("close store", "err", err)
		}
	}()

	srv := server.New(store, logger,
		server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		server.WithMaxBody(cfg.Server.MaxBody),
	)
	return srv.ListenAndServe(ctx, cfg.Server.Addr())
}
