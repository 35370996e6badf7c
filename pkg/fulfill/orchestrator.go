// Package fulfill orchestrates shipping-rate acquisition: it re-queries
// the quoting API under a retry policy until a quote satisfies the
// selection rule, escalating to a human notification when the budget
// is exhausted.
package fulfill

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tournevent/fulfillment/pkg/notify"
	"github.com/tournevent/fulfillment/pkg/quoting"
	"github.com/tournevent/fulfillment/pkg/rateselect"
	"github.com/tournevent/fulfillment/pkg/retry"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Quoter is the subset of the quoting API the orchestrator needs.
type Quoter interface {
	CreateQuote(ctx context.Context, spec *quoting.ShipmentSpec) (*quoting.QuoteResponse, error)
}

// RateDecision is the outcome of a successful orchestration run: the
// chosen quote and the raw response it came from. The chosen quote
// always belongs to the final quoting call's response; quote sets are
// never cached across attempts.
type RateDecision struct {
	Quote    quoting.Quote
	Response *quoting.QuoteResponse
}

// DefaultRetryPolicy spaces plain re-queries without backoff: the
// point of retrying is to observe a different quote set, not to
// relieve pressure on the quoting service.
func DefaultRetryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries: 5,
		Interval:   3 * time.Second,
		Timeout:    30 * time.Second,
	}
}

// Orchestrator composes the quoting API, the selection rule, and the
// retry engine.
type Orchestrator struct {
	quoter    Quoter
	notifier  notify.Notifier
	selection rateselect.Policy
	logger    *otelzap.Logger
}

// NewOrchestrator creates a new orchestrator.
func NewOrchestrator(quoter Quoter, notifier notify.Notifier, selection rateselect.Policy, logger *otelzap.Logger) *Orchestrator {
	return &Orchestrator{
		quoter:    quoter,
		notifier:  notifier,
		selection: selection,
		logger:    logger,
	}
}

// attemptState carries each attempt's raw response through the retry
// engine, so the final response survives exhaustion.
type attemptState struct {
	resp   *quoting.QuoteResponse
	chosen quoting.Quote
}

// ObtainShippingRate re-queries the quoting API until one quote passes
// the selection rule or the retry policy is exhausted.
//
// Only no-suitable-rates failures are retried. An empty quote list
// fails with ErrNoQuotesReturned; transport and validation errors
// propagate unchanged and are fatal to this shipment. Exhaustion on
// no-suitable-rates triggers the notifier once and returns an
// EscalationError carrying the final response.
func (o *Orchestrator) ObtainShippingRate(ctx context.Context, spec *quoting.ShipmentSpec, policy retry.Policy) (*RateDecision, error) {
	attempt := 0
	op := func(ctx context.Context) (attemptState, error) {
		attempt++
		resp, err := o.quoter.CreateQuote(ctx, spec)
		if err != nil {
			return attemptState{}, err
		}

		state := attemptState{resp: resp}
		if len(resp.Quotes) == 0 {
			return state, fmt.Errorf("%w for %s (quote %s)", ErrNoQuotesReturned, spec.Reference, resp.QuoteID)
		}

		id, err := o.selection.Select(resp.Quotes, resp.Zone)
		if err != nil {
			o.logger.Warn("No quote passed rate selection",
				zap.String("reference", spec.Reference),
				zap.String("quote_id", resp.QuoteID),
				zap.Int("zone", resp.Zone),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return state, err
		}

		chosen, ok := quoteByID(resp.Quotes, id)
		if !ok {
			// Selection returned an id outside its input; treat as fatal.
			return state, fmt.Errorf("selected quote %s not present in response %s", id, resp.QuoteID)
		}
		state.chosen = chosen
		return state, nil
	}

	state, err := retry.Do(ctx, policy, []error{rateselect.ErrNoSuitableRates}, op)
	if err != nil {
		if errors.Is(err, rateselect.ErrNoSuitableRates) {
			return nil, o.escalate(ctx, spec, state.resp, err)
		}
		return nil, err
	}

	o.logger.Info("Shipping rate selected",
		zap.String("reference", spec.Reference),
		zap.String("quote_id", state.resp.QuoteID),
		zap.String("rate_id", state.chosen.ID),
		zap.String("carrier", state.chosen.Carrier),
		zap.String("rate", state.chosen.Rate),
		zap.Int("attempts", attempt),
	)
	return &RateDecision{Quote: state.chosen, Response: state.resp}, nil
}

// escalate notifies a human about the exhausted search and converts
// the failure into an EscalationError. Notification delivery failures
// are logged, not propagated; the escalation itself must surface.
func (o *Orchestrator) escalate(ctx context.Context, spec *quoting.ShipmentSpec, last *quoting.QuoteResponse, cause error) error {
	esc := &notify.Escalation{
		Reference: spec.Reference,
		Cause:     cause,
	}
	if last != nil {
		esc.QuoteID = last.QuoteID
		esc.Zone = last.Zone
		esc.LastQuotes = last.Quotes
	}

	if err := o.notifier.NotifyEscalation(ctx, esc); err != nil {
		o.logger.Error("Failed to deliver escalation notification",
			zap.String("reference", spec.Reference),
			zap.Error(err),
		)
	}

	return &EscalationError{
		Reference:    spec.Reference,
		LastResponse: last,
		Cause:        cause,
	}
}

func quoteByID(quotes []quoting.Quote, id string) (quoting.Quote, bool) {
	for _, q := range quotes {
		if q.ID == id {
			return q, true
		}
	}
	return quoting.Quote{}, false
}
