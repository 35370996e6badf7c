package quoting

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of APIClient for testing and
// local development.
type MockAPIClient struct {
	SimulateErrors  bool
	SimulateLatency time.Duration

	OnCreateQuote   func(ctx context.Context, spec *ShipmentSpec) (*QuoteResponse, error)
	OnPurchaseLabel func(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error)
}

// NewMockAPIClient creates a new mock API client with default behavior.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// CreateQuote returns a mock quote set. Rates and transit times vary
// between calls, mirroring how the real quoting API behaves for an
// identical shipment.
func (m *MockAPIClient) CreateQuote(ctx context.Context, spec *ShipmentSpec) (*QuoteResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "simulated API error"}
	}

	if m.OnCreateQuote != nil {
		return m.OnCreateQuote(ctx, spec)
	}

	quoteID := "quote-" + uuid.New().String()[:8]

	carriers := []struct {
		carrier string
		service string
		base    float64
	}{
		{"USPS", "Priority Mail", 7.90},
		{"UPS", "2nd Day Air", 14.50},
		{"FedEx", "2Day", 15.10},
		{"UPS", "Ground", 9.20},
	}

	quotes := make([]Quote, 0, len(carriers))
	for _, c := range carriers {
		quotes = append(quotes, Quote{
			ID:           "rate-" + uuid.New().String()[:8],
			Carrier:      c.carrier,
			Service:      c.service,
			Rate:         fmt.Sprintf("%.2f", c.base+rand.Float64()*4),
			DeliveryDays: 1 + rand.IntN(4),
			Currency:     "USD",
		})
	}

	return &QuoteResponse{
		QuoteID: quoteID,
		Zone:    1 + rand.IntN(8),
		Quotes:  quotes,
	}, nil
}

// PurchaseLabel returns a mock label purchase.
func (m *MockAPIClient) PurchaseLabel(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	if m.SimulateLatency > 0 {
		time.Sleep(m.SimulateLatency)
	}

	if m.SimulateErrors {
		return nil, &APIError{Code: "MOCK_ERROR", Message: "simulated API error"}
	}

	if m.OnPurchaseLabel != nil {
		return m.OnPurchaseLabel(ctx, req)
	}

	shipmentID := "ship-" + uuid.New().String()[:8]
	return &PurchaseResponse{
		ShipmentID:     shipmentID,
		TrackingNumber: fmt.Sprintf("1Z%09d", rand.IntN(1_000_000_000)),
		TrackingURL:    "https://track.example.com/" + shipmentID,
		LabelURL:       "https://labels.example.com/" + shipmentID + ".pdf",
		Carrier:        "UPS",
		Status:         "purchased",
	}, nil
}
