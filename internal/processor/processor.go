// Package processor drives order fulfillment: for each fulfillment
// order of a paid order it obtains a shipping rate, purchases the
// label, and records the fulfillment back to the storefront.
package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/fulfill"
	"github.com/tournevent/fulfillment/pkg/quoting"
	"github.com/tournevent/fulfillment/pkg/retry"
	"github.com/tournevent/fulfillment/pkg/storefront"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// Default package dimensions (cm) used when the storefront carries no
// packaging data for a fulfillment order.
const (
	defaultPackageLength = 30
	defaultPackageWidth  = 23
	defaultPackageHeight = 15
)

// RateObtainer acquires a qualifying shipping rate for a shipment.
type RateObtainer interface {
	ObtainShippingRate(ctx context.Context, spec *quoting.ShipmentSpec, policy retry.Policy) (*fulfill.RateDecision, error)
}

// LabelPurchaser buys the label for a chosen rate.
type LabelPurchaser interface {
	PurchaseLabel(ctx context.Context, req *quoting.PurchaseRequest) (*quoting.PurchaseResponse, error)
}

// Config holds the processor's fixed inputs.
type Config struct {
	Origin         quoting.Address
	RetryPolicy    retry.Policy
	NotifyCustomer bool
}

// Processor processes order-paid events.
type Processor struct {
	config  Config
	store   storefront.API
	rates   RateObtainer
	labels  LabelPurchaser
	logger  *otelzap.Logger
	metrics *telemetry.Metrics
}

// New creates a new processor.
func New(cfg Config, store storefront.API, rates RateObtainer, labels LabelPurchaser, logger *otelzap.Logger, metrics *telemetry.Metrics) *Processor {
	return &Processor{
		config:  cfg,
		store:   store,
		rates:   rates,
		labels:  labels,
		logger:  logger,
		metrics: metrics,
	}
}

// Result summarizes one order-paid event's processing.
type Result struct {
	OrderID   string
	Shipped   int
	Escalated int
	Failed    int
	Errors    []error
}

// ProcessOrderPaid handles one order-paid event. Fulfillment orders
// are processed sequentially; an escalated or failed fulfillment order
// never aborts the rest of the batch.
func (p *Processor) ProcessOrderPaid(ctx context.Context, event *storefront.OrderPaidEvent) (*Result, error) {
	order, err := p.store.Order(ctx, event.OrderID)
	if err != nil {
		return nil, fmt.Errorf("fetching order %s: %w", event.OrderID, err)
	}

	p.logger.Info("Processing paid order",
		zap.String("order_id", order.ID),
		zap.String("order_name", order.Name),
		zap.Int("fulfillment_orders", len(order.FulfillmentOrders)),
	)

	result := &Result{OrderID: order.ID}
	for _, fo := range order.FulfillmentOrders {
		start := time.Now()
		err := p.processFulfillmentOrder(ctx, order, fo)
		elapsed := time.Since(start).Seconds()

		switch {
		case err == nil:
			result.Shipped++
			p.metrics.RecordShipment("shipped", elapsed)
		case errors.Is(err, fulfill.ErrRateEscalation):
			// Escalation already notified a human; skip this
			// fulfillment order and keep going.
			result.Escalated++
			result.Errors = append(result.Errors, err)
			p.metrics.EscalationsTotal.Inc()
			p.metrics.RecordShipment("escalated", elapsed)
			p.logger.Warn("Fulfillment order escalated",
				zap.String("order_id", order.ID),
				zap.String("fulfillment_order_id", fo.ID),
				zap.Error(err),
			)
		default:
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("fulfillment order %s: %w", fo.ID, err))
			p.metrics.RecordShipment("failed", elapsed)
			p.logger.Error("Fulfillment order failed",
				zap.String("order_id", order.ID),
				zap.String("fulfillment_order_id", fo.ID),
				zap.Error(err),
			)
		}
	}

	return result, nil
}

func (p *Processor) processFulfillmentOrder(ctx context.Context, order *storefront.Order, fo storefront.FulfillmentOrder) error {
	spec := p.shipmentSpec(order, fo)

	decision, err := p.rates.ObtainShippingRate(ctx, spec, p.config.RetryPolicy)
	if err != nil {
		return err
	}

	purchase, err := p.labels.PurchaseLabel(ctx, &quoting.PurchaseRequest{
		QuoteID:   decision.Response.QuoteID,
		RateID:    decision.Quote.ID,
		Reference: spec.Reference,
	})
	if err != nil {
		return fmt.Errorf("purchasing label: %w", err)
	}
	p.metrics.LabelsTotal.Inc()

	if _, err := p.store.CreateFulfillment(ctx, &storefront.FulfillmentInput{
		FulfillmentOrderID: fo.ID,
		TrackingNumber:     purchase.TrackingNumber,
		TrackingURL:        purchase.TrackingURL,
		TrackingCompany:    decision.Quote.Carrier,
		NotifyCustomer:     p.config.NotifyCustomer,
	}); err != nil {
		return fmt.Errorf("recording fulfillment: %w", err)
	}

	p.logger.Info("Fulfillment order shipped",
		zap.String("order_id", order.ID),
		zap.String("fulfillment_order_id", fo.ID),
		zap.String("carrier", decision.Quote.Carrier),
		zap.String("tracking_number", purchase.TrackingNumber),
		zap.String("label_url", purchase.LabelURL),
	)
	return nil
}

// shipmentSpec builds the quoting request for a fulfillment order.
func (p *Processor) shipmentSpec(order *storefront.Order, fo storefront.FulfillmentOrder) *quoting.ShipmentSpec {
	return &quoting.ShipmentSpec{
		Reference:   fmt.Sprintf("%s/%s", order.Name, fo.ID),
		Origin:      p.config.Origin,
		Destination: destinationToAddress(fo.Destination),
		Packages:    []quoting.Package{packageFor(fo.LineItems)},
	}
}

func destinationToAddress(d storefront.ShipTo) quoting.Address {
	return quoting.Address{
		Name:         d.Name,
		Company:      d.Company,
		Line1:        d.Address1,
		Line2:        d.Address2,
		City:         d.City,
		ProvinceCode: d.ProvinceCode,
		PostalCode:   d.PostalCode,
		CountryCode:  d.CountryCode,
		Phone:        d.Phone,
		Email:        d.Email,
		Residential:  true,
	}
}

// packageFor collapses the line items into a single default-size
// parcel; weight is the summed item weight.
func packageFor(items []storefront.LineItem) quoting.Package {
	grams := 0
	for _, li := range items {
		grams += li.Grams * li.Quantity
	}
	return quoting.Package{
		Length: defaultPackageLength,
		Width:  defaultPackageWidth,
		Height: defaultPackageHeight,
		Weight: float64(grams) / 1000,
	}
}
