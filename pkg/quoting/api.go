package quoting

import (
	"context"
)

// APIClient defines the interface for quoting API operations.
// This abstraction allows for mock implementations during testing
// and real implementations in production.
type APIClient interface {
	// CreateQuote submits a shipment and returns the carrier quotes
	// plus the destination zone for it.
	CreateQuote(ctx context.Context, spec *ShipmentSpec) (*QuoteResponse, error)

	// PurchaseLabel buys the shipping label for a quoted rate.
	PurchaseLabel(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error)
}

// APIError represents an error payload from the quoting API.
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"` // field-level errors
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}
