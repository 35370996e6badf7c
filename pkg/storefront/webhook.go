package storefront

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// SignatureHeader carries the webhook body's HMAC-SHA256 digest,
// base64 encoded.
const SignatureHeader = "X-Storefront-Hmac-Sha256"

// OrderPaidEvent is the order-paid webhook payload. It only names the
// order; shipping details come from a follow-up Order lookup.
type OrderPaidEvent struct {
	OrderID     string `json:"order_id"`
	OrderNumber string `json:"order_number"`
	Currency    string `json:"currency"`
	TotalPrice  string `json:"total_price"`
	Test        bool   `json:"test"`
}

// ParseOrderPaidEvent decodes an order-paid webhook body.
func ParseOrderPaidEvent(body []byte) (*OrderPaidEvent, error) {
	var event OrderPaidEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decoding order-paid payload: %w", err)
	}
	if event.OrderID == "" {
		return nil, fmt.Errorf("order-paid payload missing order_id")
	}
	return &event, nil
}

// VerifySignature checks the webhook body against its signature header
// using constant-time comparison.
func VerifySignature(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// Sign computes the signature for a webhook body. Used by tests and
// local tooling.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
