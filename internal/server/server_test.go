package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/internal/processor"
	"github.com/tournevent/fulfillment/internal/server"
	"github.com/tournevent/fulfillment/internal/telemetry"
	"github.com/tournevent/fulfillment/pkg/storefront"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

const testSecret = "webhook-secret"

var testMetrics = telemetry.NewMetrics()

type stubProcessor struct {
	result *processor.Result
	err    error
	events []*storefront.OrderPaidEvent
}

func (s *stubProcessor) ProcessOrderPaid(ctx context.Context, event *storefront.OrderPaidEvent) (*processor.Result, error) {
	s.events = append(s.events, event)
	return s.result, s.err
}

func newTestServer(proc *stubProcessor) *server.Server {
	return server.New(
		server.Config{Port: 0, WebhookSecret: testSecret},
		proc,
		otelzap.New(zap.NewNop()),
		testMetrics,
	)
}

func signedRequest(t *testing.T, secret string, payload []byte) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/order-paid", bytes.NewReader(payload))
	req.Header.Set(storefront.SignatureHeader, storefront.Sign(secret, payload))
	return req
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&stubProcessor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestOrderPaid_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubProcessor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webhooks/order-paid", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOrderPaid_InvalidSignature(t *testing.T) {
	proc := &stubProcessor{}
	srv := newTestServer(proc)

	payload := []byte(`{"order_id":"1042"}`)
	req := signedRequest(t, "wrong-secret", payload)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, proc.events, "unauthenticated webhook must not reach the processor")
}

func TestOrderPaid_MissingSignature(t *testing.T) {
	srv := newTestServer(&stubProcessor{})

	payload := []byte(`{"order_id":"1042"}`)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/order-paid", bytes.NewReader(payload))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderPaid_BadPayload(t *testing.T) {
	srv := newTestServer(&stubProcessor{})

	payload := []byte(`{"number":7}`) // no order_id
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedRequest(t, testSecret, payload))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderPaid_Processed(t *testing.T) {
	proc := &stubProcessor{
		result: &processor.Result{OrderID: "1042", Shipped: 2, Escalated: 1},
	}
	srv := newTestServer(proc)

	payload := []byte(`{"order_id":"1042","number":1042}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedRequest(t, testSecret, payload))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status    string `json:"status"`
		Shipped   int    `json:"shipped"`
		Escalated int    `json:"escalated"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "processed", resp.Status)
	assert.Equal(t, 2, resp.Shipped)
	assert.Equal(t, 1, resp.Escalated)

	require.Len(t, proc.events, 1)
	assert.Equal(t, "1042", proc.events[0].OrderID)
}

func TestOrderPaid_ProcessorError(t *testing.T) {
	proc := &stubProcessor{err: errors.New("storefront unreachable")}
	srv := newTestServer(proc)

	payload := []byte(`{"order_id":"1042"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, signedRequest(t, testSecret, payload))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&stubProcessor{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fulfillment_webhooks_total")
}
