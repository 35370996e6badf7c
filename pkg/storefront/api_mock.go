package storefront

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockAPIClient is a mock implementation of API for testing and local
// development.
type MockAPIClient struct {
	mu           sync.Mutex
	fulfillments []*FulfillmentInput

	OnOrder             func(ctx context.Context, id string) (*Order, error)
	OnCreateFulfillment func(ctx context.Context, input *FulfillmentInput) (*Fulfillment, error)
}

// NewMockAPIClient creates a new mock storefront client.
func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

// Order returns a canned order with a single fulfillment order.
func (m *MockAPIClient) Order(ctx context.Context, id string) (*Order, error) {
	if m.OnOrder != nil {
		return m.OnOrder(ctx, id)
	}

	return &Order{
		ID:    id,
		Name:  "#" + id,
		Email: "customer@example.com",
		FulfillmentOrders: []FulfillmentOrder{
			{
				ID: "fo-" + uuid.New().String()[:8],
				Destination: ShipTo{
					Name:         "Test Customer",
					Address1:     "456 Oak Ave",
					City:         "Portland",
					ProvinceCode: "OR",
					PostalCode:   "97201",
					CountryCode:  "US",
					Phone:        "503-555-0101",
				},
				LineItems: []LineItem{
					{ID: "li-1", Title: "Widget", SKU: "WID-1", Quantity: 2, Grams: 350},
				},
			},
		},
	}, nil
}

// CreateFulfillment records the input and returns a canned fulfillment.
func (m *MockAPIClient) CreateFulfillment(ctx context.Context, input *FulfillmentInput) (*Fulfillment, error) {
	if m.OnCreateFulfillment != nil {
		return m.OnCreateFulfillment(ctx, input)
	}

	m.mu.Lock()
	m.fulfillments = append(m.fulfillments, input)
	m.mu.Unlock()

	return &Fulfillment{
		ID:     fmt.Sprintf("fulfillment-%d", len(m.fulfillments)),
		Status: "success",
	}, nil
}

// Fulfillments returns the fulfillment inputs recorded so far.
func (m *MockAPIClient) Fulfillments() []*FulfillmentInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*FulfillmentInput, len(m.fulfillments))
	copy(out, m.fulfillments)
	return out
}
