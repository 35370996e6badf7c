// Package storefront provides the client for the e-commerce platform:
// order lookups, fulfillment creation, and order-paid webhook payloads.
package storefront

import (
	"context"
)

// API defines the storefront operations the service needs.
type API interface {
	// Order fetches an order with its open fulfillment orders.
	Order(ctx context.Context, id string) (*Order, error)

	// CreateFulfillment records a fulfillment with tracking details
	// against a fulfillment order.
	CreateFulfillment(ctx context.Context, input *FulfillmentInput) (*Fulfillment, error)
}

// Order is a paid storefront order.
type Order struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"` // human order number, e.g. "#1042"
	Email             string             `json:"email"`
	FulfillmentOrders []FulfillmentOrder `json:"fulfillmentOrders"`
}

// FulfillmentOrder is a shippable unit of an order.
type FulfillmentOrder struct {
	ID          string     `json:"id"`
	Destination ShipTo     `json:"destination"`
	LineItems   []LineItem `json:"lineItems"`
}

// ShipTo is the destination of a fulfillment order.
type ShipTo struct {
	Name         string `json:"name"`
	Company      string `json:"company"`
	Address1     string `json:"address1"`
	Address2     string `json:"address2"`
	City         string `json:"city"`
	ProvinceCode string `json:"provinceCode"`
	PostalCode   string `json:"zip"`
	CountryCode  string `json:"countryCode"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// LineItem is an ordered product to pack.
type LineItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
	Grams    int    `json:"grams"` // unit weight
}

// FulfillmentInput records a shipped fulfillment order.
type FulfillmentInput struct {
	FulfillmentOrderID string `json:"fulfillmentOrderId"`
	TrackingNumber     string `json:"trackingNumber"`
	TrackingURL        string `json:"trackingUrl,omitempty"`
	TrackingCompany    string `json:"trackingCompany,omitempty"`
	NotifyCustomer     bool   `json:"notifyCustomer"`
}

// Fulfillment is the created fulfillment record.
type Fulfillment struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
