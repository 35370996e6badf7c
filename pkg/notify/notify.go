// Package notify delivers human-facing notifications for shipments
// that exhausted the rate-selection retry budget.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/tournevent/fulfillment/pkg/quoting"
)

// Escalation describes an exhausted rate search: the shipment it was
// for, the quotes observed on the final attempt, and the error that
// triggered exhaustion.
type Escalation struct {
	Reference  string // order / fulfillment reference
	QuoteID    string // quoting API id of the last response
	Zone       int
	LastQuotes []quoting.Quote
	Cause      error
}

// Notifier delivers escalation notifications. Implementations are
// invoked at most once per exhausted orchestration.
type Notifier interface {
	NotifyEscalation(ctx context.Context, esc *Escalation) error
}

// Subject returns the notification subject line.
func (e *Escalation) Subject() string {
	return fmt.Sprintf("Shipping rate escalation for %s", e.Reference)
}

// Body renders the plain-text notification listing the rejected quotes.
func (e *Escalation) Body() string {
	var b strings.Builder

	fmt.Fprintf(&b, "No shipping rate satisfied the selection rules for %s.\n\n", e.Reference)
	if e.Cause != nil {
		fmt.Fprintf(&b, "Reason: %v\n\n", e.Cause)
	}

	if len(e.LastQuotes) == 0 {
		b.WriteString("The final quoting response contained no rates.\n")
	} else {
		fmt.Fprintf(&b, "Rates from the final quoting response (quote %s, zone %d):\n", e.QuoteID, e.Zone)
		for _, q := range e.LastQuotes {
			fmt.Fprintf(&b, "  - %s %s: %s %s, %d day(s)\n",
				q.Carrier, q.Service, q.Rate, q.Currency, q.DeliveryDays)
		}
	}

	b.WriteString("\nPlease select a rate and ship this order manually.\n")
	return b.String()
}
