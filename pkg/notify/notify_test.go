package notify

import (
	"context"
	"errors"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/pkg/quoting"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

func testEscalation() *Escalation {
	return &Escalation{
		Reference: "order-1042",
		QuoteID:   "quote-abc123",
		Zone:      5,
		LastQuotes: []quoting.Quote{
			{ID: "r1", Carrier: "USPS", Service: "Priority Mail", Rate: "7.90", DeliveryDays: 2, Currency: "USD"},
			{ID: "r2", Carrier: "UPS", Service: "Ground", Rate: "9.20", DeliveryDays: 4, Currency: "USD"},
		},
		Cause: errors.New("no suitable rates: all eligible rates use reserved carrier USPS in zone 5"),
	}
}

func TestEscalation_Body(t *testing.T) {
	body := testEscalation().Body()

	assert.Contains(t, body, "order-1042")
	assert.Contains(t, body, "quote-abc123")
	assert.Contains(t, body, "USPS Priority Mail: 7.90 USD, 2 day(s)")
	assert.Contains(t, body, "UPS Ground: 9.20 USD, 4 day(s)")
	assert.Contains(t, body, "manually")
}

func TestEscalation_BodyWithoutQuotes(t *testing.T) {
	esc := &Escalation{Reference: "order-7", Cause: errors.New("zero rates")}

	body := esc.Body()
	assert.Contains(t, body, "contained no rates")
}

func TestSMTPNotifier_SendsMessage(t *testing.T) {
	logger := otelzap.New(zap.NewNop())
	n := NewSMTPNotifier(SMTPConfig{
		Host: "mail.example.com",
		Port: 587,
		From: "fulfillment@example.com",
		To:   []string{"ops@example.com"},
	}, logger)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	err := n.NotifyEscalation(context.Background(), testEscalation())
	require.NoError(t, err)

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "fulfillment@example.com", gotFrom)
	assert.Equal(t, []string{"ops@example.com"}, gotTo)
	assert.Contains(t, string(gotMsg), "Subject: Shipping rate escalation for order-1042")
	assert.Contains(t, string(gotMsg), "UPS Ground")
}

func TestSMTPNotifier_SendFailure(t *testing.T) {
	logger := otelzap.New(zap.NewNop())
	n := NewSMTPNotifier(SMTPConfig{Host: "mail.example.com", Port: 25}, logger)

	sendErr := errors.New("connection refused")
	n.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		return sendErr
	}

	err := n.NotifyEscalation(context.Background(), testEscalation())
	assert.ErrorIs(t, err, sendErr)
}

func TestMockNotifier_RecordsCalls(t *testing.T) {
	m := NewMockNotifier()

	require.NoError(t, m.NotifyEscalation(context.Background(), testEscalation()))
	require.Len(t, m.Calls(), 1)
	assert.Equal(t, "order-1042", m.Calls()[0].Reference)
}
