package main

import (
	"context"

	"github.com/tournevent/fulfillment/internal/config"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/fulfill"
	"github.com/tournevent/fulfillment/pkg/notify"
	"github.com/tournevent/fulfillment/pkg/quoting"
	"github.com/tournevent/fulfillment/pkg/storefront"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
)

func loadConfig() (*config.Config, error) {
	return config.Load()
}

func initLogger(level string) (*otelzap.Logger, error) {
	return telemetry.NewLogger(level)
}

func initTracer(ctx context.Context, cfg *config.Config) (trace.Tracer, func(context.Context) error, error) {
	if !cfg.OTELEnabled {
		return nil, func(context.Context) error { return nil }, nil
	}

	return telemetry.InitTracer(ctx, cfg.OTELEndpoint, cfg.ServiceName, cfg.Version)
}

func initQuoting(cfg *config.Config, logger *otelzap.Logger, tracer trace.Tracer) *quoting.Client {
	return quoting.New(quoting.Config{
		APIKey:  cfg.QuotingAPIKey,
		BaseURL: cfg.QuotingBaseURL,
		UseMock: cfg.QuotingUseMock,
	}, logger, tracer)
}

func initStorefront(cfg *config.Config) storefront.API {
	if cfg.StorefrontUseMock {
		return storefront.NewMockAPIClient()
	}

	return storefront.NewHTTPAPIClient(storefront.HTTPAPIClientConfig{
		Endpoint:    cfg.StorefrontEndpoint,
		AccessToken: cfg.StorefrontAccessToken,
	})
}

func initNotifier(cfg *config.Config, logger *otelzap.Logger) notify.Notifier {
	if cfg.SMTPHost == "" {
		return notify.NewLogNotifier(logger)
	}
	return notify.NewSMTPNotifier(cfg.SMTPConfig(), logger)
}

func initOrchestrator(cfg *config.Config, quoter fulfill.Quoter, logger *otelzap.Logger) *fulfill.Orchestrator {
	return fulfill.NewOrchestrator(quoter, initNotifier(cfg, logger), cfg.SelectionPolicy(), logger)
}
