package notify

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// LogNotifier records escalations in the service log. It is the
// fallback when no SMTP transport is configured.
type LogNotifier struct {
	logger *otelzap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *otelzap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyEscalation logs the escalation at warn level.
func (n *LogNotifier) NotifyEscalation(ctx context.Context, esc *Escalation) error {
	n.logger.Ctx(ctx).Warn("Shipment escalation",
		zap.String("reference", esc.Reference),
		zap.String("quote_id", esc.QuoteID),
		zap.Int("zone", esc.Zone),
		zap.Int("last_quote_count", len(esc.LastQuotes)),
		zap.String("body", esc.Body()),
	)
	return nil
}
