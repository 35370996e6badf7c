// Package rateselect implements the business rule that picks one
// shipping quote out of a carrier quote set, or reports that none
// qualifies.
package rateselect

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tournevent/fulfillment/pkg/quoting"
)

// Default policy values. These are business policy, not algorithm
// constants; override them through Policy.
const (
	// DefaultReservedCarrier is the national-postal carrier excluded
	// for far destination zones.
	DefaultReservedCarrier = "USPS"

	// DefaultMaxTransitDays is the delivery-time eligibility cutoff.
	DefaultMaxTransitDays = 2

	// DefaultReservedZoneCutoff is the highest zone the reserved
	// carrier may still serve.
	DefaultReservedZoneCutoff = 2
)

// ErrNoSuitableRates indicates quotes existed (or not) but none
// passed the eligibility and carrier rules.
var ErrNoSuitableRates = errors.New("no suitable rates")

// NoSuitableRatesError carries the rejection reason and the state of
// the candidate set for diagnostics.
type NoSuitableRatesError struct {
	Reason   string
	Rejected []quoting.Quote
}

// Error implements the error interface.
func (e *NoSuitableRatesError) Error() string {
	if len(e.Rejected) > 0 {
		return fmt.Sprintf("no suitable rates: %s (candidates: %v)", e.Reason, e.Rejected)
	}
	return "no suitable rates: " + e.Reason
}

// Unwrap makes the error match ErrNoSuitableRates with errors.Is.
func (e *NoSuitableRatesError) Unwrap() error {
	return ErrNoSuitableRates
}

// Policy holds the selection rule's configuration.
type Policy struct {
	// ReservedCarrier is excluded when the destination zone exceeds
	// ReservedZoneCutoff.
	ReservedCarrier string

	// MaxTransitDays is the inclusive delivery-days eligibility cutoff.
	MaxTransitDays int

	// ReservedZoneCutoff is the highest zone where ReservedCarrier
	// remains eligible.
	ReservedZoneCutoff int
}

// DefaultPolicy returns the selection policy with default business rules.
func DefaultPolicy() Policy {
	return Policy{
		ReservedCarrier:    DefaultReservedCarrier,
		MaxTransitDays:     DefaultMaxTransitDays,
		ReservedZoneCutoff: DefaultReservedZoneCutoff,
	}
}

// Select picks the winning quote for the destination zone and returns
// its ID. It is a pure function: same inputs, same result.
//
// The rule: keep quotes deliverable within MaxTransitDays, order them
// by numeric rate ascending (stable, so equal rates keep their input
// order), skip the reserved carrier when zone exceeds
// ReservedZoneCutoff, and take the cheapest survivor. Every failure
// mode returns a NoSuitableRatesError.
func (p Policy) Select(quotes []quoting.Quote, zone int) (string, error) {
	if len(quotes) == 0 {
		return "", &NoSuitableRatesError{Reason: "zero rates"}
	}

	eligible := make([]quoting.Quote, 0, len(quotes))
	for _, q := range quotes {
		if q.DeliveryDays <= p.MaxTransitDays {
			eligible = append(eligible, q)
		}
	}
	if len(eligible) == 0 {
		return "", &NoSuitableRatesError{
			Reason: fmt.Sprintf("no rates for %d days or less", p.MaxTransitDays),
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return rateValue(eligible[i]) < rateValue(eligible[j])
	})

	for _, q := range eligible {
		if zone > p.ReservedZoneCutoff && q.Carrier == p.ReservedCarrier {
			continue
		}
		return q.ID, nil
	}

	return "", &NoSuitableRatesError{
		Reason: fmt.Sprintf("all eligible rates use reserved carrier %s in zone %d",
			p.ReservedCarrier, zone),
		Rejected: eligible,
	}
}

// rateValue parses the decimal rate string. Unparseable rates sort last.
func rateValue(q quoting.Quote) float64 {
	v, err := strconv.ParseFloat(q.Rate, 64)
	if err != nil {
		return math.MaxFloat64
	}
	return v
}
