package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postproof/internal/app"
	"postproof/internal/config"
	"postproof/pkg/log"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "postproof: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateForServe(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	logger, err := app.NewLogger(cfg.LogLevel, os.Stdout)
	if err != nil {
		return err
	}
	log.SetDefault(logger)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.ApifyToken == "" {
		log.GlobalWarn("APIFY_API_TOKEN not set, verifications will fail until it is configured")
	}

	server := a.HTTP()
	errCh := make(chan error, 1)
	go func() {
		log.GlobalInfo("starting postproof", "port", cfg.Port, "evidence", cfg.EvidenceEnabled())
		errCh <- server.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.GlobalInfo("shutting down")
	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
