package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/variant-studio/internal/config"
	"github.com/jonathan/variant-studio/internal/logging"
	"github.com/jonathan/variant-studio/internal/server"
	"github.com/jonathan/variant-studio/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for generating, polishing and exporting copy variants.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT env var)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort > 0 {
		cfg.Port = strconv.Itoa(servePort)
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Encoding: cfg.LogEncoding})
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	rateLimit, err := ratelimit.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOrBackground(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, appOptions{persistent: true, export: true})
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	defer a.Close()

	version := config.Version(cfg.BuildDate, time.Now())
	logger.Info("service configured",
		zap.String("version", version),
		zap.String("provider", string(cfg.Provider())),
		zap.Bool("ai_enabled", a.service.AIEnabled()),
		zap.Strings("channels", a.service.Catalog().Keys()))

	srv := server.New(server.Config{
		Port:      cfg.Port,
		Version:   version,
		Model:     cfg.ModelName(),
		ExportDir: cfg.ExportDir,
		RateLimit: rateLimit,
		Logger:    logger,
	}, a.service)

	return srv.Start(ctx)
}

// contextOrBackground guards commands executed without ExecuteContext.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
