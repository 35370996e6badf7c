// Package quoting provides the client for the external shipment
// quoting API: rate shopping across carriers and label purchase.
package quoting

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Config holds quoting API configuration.
type Config struct {
	APIKey  string
	BaseURL string
	UseMock bool // when true, uses the mock API client
}

// Client is the quoting API client. It delegates API calls to the
// underlying APIClient (mock or HTTP) and adds logging and tracing.
type Client struct {
	config    Config
	apiClient APIClient
	logger    *otelzap.Logger
	tracer    trace.Tracer
}

// New creates a new quoting client. If cfg.UseMock is true, it uses a
// mock API client; otherwise it uses the real HTTP API client.
func New(cfg Config, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	var apiClient APIClient

	if cfg.UseMock {
		apiClient = NewMockAPIClient()
	} else {
		apiClient = NewHTTPAPIClient(HTTPAPIClientConfig{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: 30 * time.Second,
		})
	}

	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// NewWithAPIClient creates a new quoting client with a custom API
// client. This is useful for injecting mock clients in tests.
func NewWithAPIClient(cfg Config, apiClient APIClient, logger *otelzap.Logger, tracer trace.Tracer) *Client {
	return &Client{
		config:    cfg,
		apiClient: apiClient,
		logger:    logger,
		tracer:    tracer,
	}
}

// CreateQuote requests carrier quotes for a shipment.
func (c *Client) CreateQuote(ctx context.Context, spec *ShipmentSpec) (*QuoteResponse, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "quoting.CreateQuote")
		defer span.End()
	}

	c.logger.Info("Creating shipment quote",
		zap.String("reference", spec.Reference),
		zap.String("destination_city", spec.Destination.City),
		zap.Int("package_count", len(spec.Packages)),
	)

	resp, err := c.apiClient.CreateQuote(ctx, spec)
	if err != nil {
		c.logger.Error("Quoting API error", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Received shipment quotes",
		zap.String("quote_id", resp.QuoteID),
		zap.Int("zone", resp.Zone),
		zap.Int("quote_count", len(resp.Quotes)),
	)
	return resp, nil
}

// PurchaseLabel buys the shipping label for a quoted rate.
func (c *Client) PurchaseLabel(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	if c.tracer != nil {
		var span trace.Span
		ctx, span = c.tracer.Start(ctx, "quoting.PurchaseLabel")
		defer span.End()
	}

	c.logger.Info("Purchasing shipping label",
		zap.String("quote_id", req.QuoteID),
		zap.String("rate_id", req.RateID),
	)

	resp, err := c.apiClient.PurchaseLabel(ctx, req)
	if err != nil {
		c.logger.Error("Quoting API error", zap.Error(err))
		return nil, err
	}

	c.logger.Info("Label purchased",
		zap.String("shipment_id", resp.ShipmentID),
		zap.String("tracking_number", resp.TrackingNumber),
	)
	return resp, nil
}
