package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPAPIClient talks to the storefront's GraphQL admin endpoint.
// Queries are plain documents posted as JSON; no schema codegen.
type HTTPAPIClient struct {
	endpoint    string
	accessToken string
	httpClient  *http.Client
}

// HTTPAPIClientConfig holds configuration for the HTTP client.
type HTTPAPIClientConfig struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
}

// NewHTTPAPIClient creates a new GraphQL-over-HTTP storefront client.
func NewHTTPAPIClient(cfg HTTPAPIClientConfig) *HTTPAPIClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAPIClient{
		endpoint:    cfg.Endpoint,
		accessToken: cfg.AccessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

const orderQuery = `
query OrderWithFulfillmentOrders($id: ID!) {
  order(id: $id) {
    id
    name
    email
    fulfillmentOrders {
      id
      destination { name company address1 address2 city provinceCode zip countryCode phone email }
      lineItems { id title sku quantity grams }
    }
  }
}`

// Order fetches an order with its open fulfillment orders.
func (c *HTTPAPIClient) Order(ctx context.Context, id string) (*Order, error) {
	var result struct {
		Order *Order `json:"order"`
	}
	if err := c.execute(ctx, orderQuery, map[string]interface{}{"id": id}, &result); err != nil {
		return nil, err
	}
	if result.Order == nil {
		return nil, fmt.Errorf("order %s not found", id)
	}
	return result.Order, nil
}

const fulfillmentMutation = `
mutation FulfillmentCreate($input: FulfillmentInput!) {
  fulfillmentCreate(input: $input) {
    fulfillment { id status }
    userErrors { field message }
  }
}`

// CreateFulfillment records a fulfillment with tracking details.
func (c *HTTPAPIClient) CreateFulfillment(ctx context.Context, input *FulfillmentInput) (*Fulfillment, error) {
	var result struct {
		FulfillmentCreate struct {
			Fulfillment *Fulfillment `json:"fulfillment"`
			UserErrors  []struct {
				Field   []string `json:"field"`
				Message string   `json:"message"`
			} `json:"userErrors"`
		} `json:"fulfillmentCreate"`
	}
	if err := c.execute(ctx, fulfillmentMutation, map[string]interface{}{"input": input}, &result); err != nil {
		return nil, err
	}

	if errs := result.FulfillmentCreate.UserErrors; len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Message
		}
		return nil, fmt.Errorf("fulfillment rejected: %s", strings.Join(msgs, "; "))
	}
	if result.FulfillmentCreate.Fulfillment == nil {
		return nil, fmt.Errorf("fulfillment create returned no fulfillment")
	}
	return result.FulfillmentCreate.Fulfillment, nil
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// execute posts a GraphQL document and decodes its data into out.
func (c *HTTPAPIClient) execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(graphQLRequest{Query: query, Variables: variables}); err != nil {
		return fmt.Errorf("encoding graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("creating graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Storefront-Access-Token", c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storefront request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding graphql response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		msgs := make([]string, len(envelope.Errors))
		for i, e := range envelope.Errors {
			msgs[i] = e.Message
		}
		return fmt.Errorf("graphql errors: %s", strings.Join(msgs, "; "))
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decoding graphql data: %w", err)
		}
	}
	return nil
}
