package quoting

// Quote is a carrier's priced, timed offer to ship a parcel. Quotes
// are produced by the quoting API and never mutated; the quote set
// for an identical shipment varies between calls.
type Quote struct {
	ID           string `json:"id"`
	Carrier      string `json:"carrier"`
	Service      string `json:"service"`
	Rate         string `json:"rate"` // decimal string, e.g. "12.47"
	DeliveryDays int    `json:"delivery_days"`
	Currency     string `json:"currency"`
}

// QuoteResponse is the result of creating a shipment quote.
// Zone classifies destination distance, 1 being the nearest.
type QuoteResponse struct {
	QuoteID string  `json:"quote_id"`
	Zone    int     `json:"zone"`
	Quotes  []Quote `json:"quotes"`
}

// Address represents a shipping address.
type Address struct {
	Name         string `json:"name,omitempty"`
	Company      string `json:"company,omitempty"`
	Line1        string `json:"line1"`
	Line2        string `json:"line2,omitempty"`
	City         string `json:"city"`
	ProvinceCode string `json:"province_code"`
	PostalCode   string `json:"postal_code"`
	CountryCode  string `json:"country_code"` // ISO 3166-1 alpha-2
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	Residential  bool   `json:"residential,omitempty"`
}

// Package represents a parcel to be shipped. Dimensions in
// centimetres, weight in kilograms.
type Package struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// ShipmentSpec describes the shipment a quote is requested for.
type ShipmentSpec struct {
	Reference   string    `json:"reference,omitempty"` // e.g. order number
	Origin      Address   `json:"origin"`
	Destination Address   `json:"destination"`
	Packages    []Package `json:"packages"`
}

// PurchaseRequest buys the label for a previously quoted rate.
type PurchaseRequest struct {
	QuoteID   string `json:"quote_id"`
	RateID    string `json:"rate_id"`
	Reference string `json:"reference,omitempty"`
}

// PurchaseResponse is the result of purchasing a shipping label.
type PurchaseResponse struct {
	ShipmentID     string `json:"shipment_id"`
	TrackingNumber string `json:"tracking_number"`
	TrackingURL    string `json:"tracking_url,omitempty"`
	LabelURL       string `json:"label_url"`
	Carrier        string `json:"carrier"`
	Status         string `json:"status"`
}
