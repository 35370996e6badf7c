package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tournevent/fulfillment/internal/processor"
	"github.com/tournevent/fulfillment/internal/server"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"go.uber.org/zap"
)

var version = "0.0.1"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "fulfillment",
	Short:   "Delivro Fulfillment - automated shipping label service",
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Initialize telemetry
	logger, err := initLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	tracer, tracerShutdown, err := initTracer(ctx, cfg)
	if err != nil {
		logger.Warn("Failed to initialize tracer", zap.Error(err))
	} else {
		defer tracerShutdown(ctx)
	}

	metrics := telemetry.NewMetrics()

	// Wire the fulfillment pipeline
	quoter := initQuoting(cfg, logger, tracer)
	store := initStorefront(cfg)
	orchestrator := initOrchestrator(cfg, quoter, logger)

	proc := processor.New(processor.Config{
		Origin:         cfg.OriginAddress(),
		RetryPolicy:    cfg.RetryPolicy(),
		NotifyCustomer: cfg.NotifyCustomer,
	}, store, orchestrator, quoter, logger, metrics)

	logger.Info("Starting Delivro Fulfillment",
		zap.Int("port", cfg.Port),
		zap.String("version", cfg.Version),
		zap.Bool("quoting_mock", cfg.QuotingUseMock),
		zap.Bool("storefront_mock", cfg.StorefrontUseMock),
	)

	// Start HTTP server
	srv := server.New(server.Config{
		Port:          cfg.Port,
		WebhookSecret: cfg.StorefrontWebhookSecret,
	}, proc, logger, metrics)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
