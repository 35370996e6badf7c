package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/tournevent/fulfillment/pkg/notify"
	"github.com/tournevent/fulfillment/pkg/quoting"
	"github.com/tournevent/fulfillment/pkg/rateselect"
	"github.com/tournevent/fulfillment/pkg/retry"
	"go.opentelemetry.io/otel/attribute"
)

// Config holds all configuration for the service.
type Config struct {
	// Server
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Storefront
	StorefrontEndpoint      string `envconfig:"STOREFRONT_GRAPHQL_ENDPOINT"`
	StorefrontAccessToken   string `envconfig:"STOREFRONT_ACCESS_TOKEN"`
	StorefrontWebhookSecret string `envconfig:"STOREFRONT_WEBHOOK_SECRET"`
	StorefrontUseMock       bool   `envconfig:"STOREFRONT_USE_MOCK" default:"false"`

	// Quoting API
	QuotingAPIKey  string `envconfig:"QUOTING_API_KEY"`
	QuotingBaseURL string `envconfig:"QUOTING_BASE_URL" default:"https://api.rateshop.example.com/v1"`
	QuotingUseMock bool   `envconfig:"QUOTING_USE_MOCK" default:"false"`

	// Ship-from origin
	OriginName       string `envconfig:"ORIGIN_NAME"`
	OriginCompany    string `envconfig:"ORIGIN_COMPANY"`
	OriginLine1      string `envconfig:"ORIGIN_LINE1"`
	OriginCity       string `envconfig:"ORIGIN_CITY"`
	OriginProvince   string `envconfig:"ORIGIN_PROVINCE"`
	OriginPostalCode string `envconfig:"ORIGIN_POSTAL_CODE"`
	OriginCountry    string `envconfig:"ORIGIN_COUNTRY" default:"US"`
	OriginPhone      string `envconfig:"ORIGIN_PHONE"`

	// Rate selection rule
	RateReservedCarrier    string `envconfig:"RATE_RESERVED_CARRIER" default:"USPS"`
	RateMaxTransitDays     int    `envconfig:"RATE_MAX_TRANSIT_DAYS" default:"2"`
	RateReservedZoneCutoff int    `envconfig:"RATE_RESERVED_ZONE_CUTOFF" default:"2"`

	// Retry policy for rate acquisition. Backoff is off by default:
	// retries exist to observe a fresh quote set, not to ease load.
	RetryMaxRetries     int           `envconfig:"RETRY_MAX_RETRIES" default:"5"`
	RetryInterval       time.Duration `envconfig:"RETRY_INTERVAL" default:"3s"`
	RetryBackoff        bool          `envconfig:"RETRY_BACKOFF" default:"false"`
	RetryMultiplier     float64       `envconfig:"RETRY_MULTIPLIER" default:"2"`
	RetryJitter         float64       `envconfig:"RETRY_JITTER" default:"0"`
	RetryMaxDelay       time.Duration `envconfig:"RETRY_MAX_DELAY" default:"0"`
	RetryAttemptTimeout time.Duration `envconfig:"RETRY_ATTEMPT_TIMEOUT" default:"30s"`

	// Escalation email
	SMTPHost       string `envconfig:"SMTP_HOST"`
	SMTPPort       int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername   string `envconfig:"SMTP_USERNAME"`
	SMTPPassword   string `envconfig:"SMTP_PASSWORD"`
	EmailFrom      string `envconfig:"EMAIL_FROM" default:"fulfillment@example.com"`
	EscalationTo   string `envconfig:"ESCALATION_TO"` // comma-separated
	NotifyCustomer bool   `envconfig:"NOTIFY_CUSTOMER" default:"true"`

	// Telemetry
	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"true"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT" default:"http://jaeger-collector.claude.svc.cluster.local:4318"`
	ServiceName  string `envconfig:"SERVICE_NAME" default:"delivro-fulfillment"`
	Version      string `envconfig:"SERVICE_VERSION" default:"0.0.1"`
}

// Load reads configuration from the environment. A local .env file is
// applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.RetryPolicy().Validate(); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// RetryPolicy returns the configured retry policy for rate acquisition.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxRetries: c.RetryMaxRetries,
		Interval:   c.RetryInterval,
		Backoff:    c.RetryBackoff,
		Multiplier: c.RetryMultiplier,
		Jitter:     c.RetryJitter,
		MaxDelay:   c.RetryMaxDelay,
		Timeout:    c.RetryAttemptTimeout,
	}
}

// SelectionPolicy returns the configured rate-selection rule.
func (c *Config) SelectionPolicy() rateselect.Policy {
	return rateselect.Policy{
		ReservedCarrier:    c.RateReservedCarrier,
		MaxTransitDays:     c.RateMaxTransitDays,
		ReservedZoneCutoff: c.RateReservedZoneCutoff,
	}
}

// OriginAddress returns the configured ship-from address.
func (c *Config) OriginAddress() quoting.Address {
	return quoting.Address{
		Name:         c.OriginName,
		Company:      c.OriginCompany,
		Line1:        c.OriginLine1,
		City:         c.OriginCity,
		ProvinceCode: c.OriginProvince,
		PostalCode:   c.OriginPostalCode,
		CountryCode:  c.OriginCountry,
		Phone:        c.OriginPhone,
	}
}

// SMTPConfig returns the escalation email transport configuration.
func (c *Config) SMTPConfig() notify.SMTPConfig {
	return notify.SMTPConfig{
		Host:     c.SMTPHost,
		Port:     c.SMTPPort,
		Username: c.SMTPUsername,
		Password: c.SMTPPassword,
		From:     c.EmailFrom,
		To:       c.EscalationRecipients(),
	}
}

// EscalationRecipients parses the comma-separated escalation list.
func (c *Config) EscalationRecipients() []string {
	if c.EscalationTo == "" {
		return nil
	}
	parts := strings.Split(c.EscalationTo, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Attributes returns OpenTelemetry attributes for this configuration.
func (c *Config) Attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("service.name", c.ServiceName),
		attribute.String("service.version", c.Version),
		attribute.Bool("quoting.mock", c.QuotingUseMock),
		attribute.Bool("storefront.mock", c.StorefrontUseMock),
	}
}
