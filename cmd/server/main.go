// Command server runs the app catalog API as a long-lived HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	handler "app-catalog-backend/api"
	"app-catalog-backend/pkg/config"
	"app-catalog-backend/pkg/database"
	"app-catalog-backend/pkg/logger"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var port string
	var env string

	flagSet := pflag.NewFlagSet("app-catalog-server", pflag.ContinueOnError)
	flagSet.StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	flagSet.StringVar(&env, "env", "", "environment name (overrides ENVIRONMENT)")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if env != "" {
		os.Setenv("ENVIRONMENT", env)
	}

	cfg := config.LoadConfig()
	if port != "" {
		cfg.Port = port
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Init(&logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer logger.Sync()

	store, err := database.GetStore(handler.StoreConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer database.ResetStore()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(cfg, store, handler.FlagStore(cfg)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigChan:
	}

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
