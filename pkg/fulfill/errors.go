package fulfill

import (
	"errors"
	"fmt"

	"github.com/tournevent/fulfillment/pkg/quoting"
)

// Error kinds raised by the orchestrator.
var (
	// ErrNoQuotesReturned indicates the quoting call succeeded at the
	// transport level but returned an empty quote list. Distinct from
	// rateselect.ErrNoSuitableRates; callers choose whether to treat
	// it as retryable.
	ErrNoQuotesReturned = errors.New("no quotes returned")

	// ErrRateEscalation is the kind carried by EscalationError.
	ErrRateEscalation = errors.New("shipping rate escalation")
)

// EscalationError is returned after the retry budget is exhausted on
// no-suitable-rates failures. It carries the quotes observed on the
// final attempt so callers and notifications can show what was
// rejected.
type EscalationError struct {
	Reference    string
	LastResponse *quoting.QuoteResponse
	Cause        error
}

// Error implements the error interface.
func (e *EscalationError) Error() string {
	return fmt.Sprintf("shipping rate escalation for %s: %v", e.Reference, e.Cause)
}

// Unwrap exposes the triggering error, so errors.Is still matches
// rateselect.ErrNoSuitableRates.
func (e *EscalationError) Unwrap() error {
	return e.Cause
}

// Is makes the error match ErrRateEscalation with errors.Is.
func (e *EscalationError) Is(target error) bool {
	return target == ErrRateEscalation
}

// LastQuotes returns the quotes from the final quoting response, if any.
func (e *EscalationError) LastQuotes() []quoting.Quote {
	if e.LastResponse == nil {
		return nil
	}
	return e.LastResponse.Quotes
}
