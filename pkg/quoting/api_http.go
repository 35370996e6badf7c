package quoting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// HTTPAPIClient is the production implementation of APIClient using HTTP.
type HTTPAPIClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// NewHTTPAPIClient creates a new HTTP-based API client for production use.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateQuote submits the shipment to POST /quotes and returns the
// quoted rates with the destination zone.
func (c *HTTPAPIClient) CreateQuote(ctx context.Context, spec *ShipmentSpec) (*QuoteResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/quotes", spec, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var quote QuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	return &quote, nil
}

// PurchaseLabel buys the label for a quoted rate via POST /labels.
// An idempotency key derived from the request prevents double
// purchases on network replays.
func (c *HTTPAPIClient) PurchaseLabel(ctx context.Context, req *PurchaseRequest) (*PurchaseResponse, error) {
	idempotencyKey := req.Reference
	if idempotencyKey == "" {
		idempotencyKey = uuid.New().String()
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/labels", req, idempotencyKey)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, c.parseError(resp)
	}

	var purchase PurchaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&purchase); err != nil {
		return nil, fmt.Errorf("failed to decode purchase response: %w", err)
	}
	return &purchase, nil
}

func (c *HTTPAPIClient) doRequest(ctx context.Context, method, path string, body interface{}, idempotencyKey string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewQuotingError("TRANSPORT_ERROR", "request failed").
			WithCause(err).
			WithRetryable(true)
	}
	return resp, nil
}

// parseError maps quoting API error responses to package errors.
func (c *HTTPAPIClient) parseError(resp *http.Response) error {
	var apiErr APIError
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		apiErr = APIError{
			Code:    "UNKNOWN",
			Message: fmt.Sprintf("unexpected status %d", resp.StatusCode),
		}
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAuthenticationFailed, apiErr.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrQuoteNotFound, apiErr.Message)
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		if apiErr.Code == "INVALID_ADDRESS" {
			return fmt.Errorf("%w: %s", ErrInvalidAddress, apiErr.Message)
		}
		if apiErr.Code == "INVALID_PACKAGE" {
			return fmt.Errorf("%w: %s", ErrInvalidPackage, apiErr.Message)
		}
		return NewQuotingError(apiErr.Code, apiErr.Message).WithStatusCode(resp.StatusCode)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimitExceeded, apiErr.Message)
	default:
		if resp.StatusCode >= 500 {
			return fmt.Errorf("%w: %s", ErrServiceUnavailable, apiErr.Message)
		}
		return NewQuotingError(apiErr.Code, apiErr.Message).WithStatusCode(resp.StatusCode)
	}
}
