package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/fulfillment/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "USPS", cfg.RateReservedCarrier)
	assert.Equal(t, 2, cfg.RateMaxTransitDays)
	assert.Equal(t, 2, cfg.RateReservedZoneCutoff)
	assert.Equal(t, "delivro-fulfillment", cfg.ServiceName)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_RESERVED_CARRIER", "CanadaPost")
	t.Setenv("RETRY_MAX_RETRIES", "9")
	t.Setenv("RETRY_INTERVAL", "500ms")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "CanadaPost", cfg.RateReservedCarrier)
	assert.Equal(t, 9, cfg.RetryMaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryInterval)
}

func TestLoad_RejectsInvalidRetryPolicy(t *testing.T) {
	t.Setenv("RETRY_JITTER", "2")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestRetryPolicy_BackoffDisabledByDefault(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	p := cfg.RetryPolicy()
	assert.False(t, p.Backoff)
	assert.Equal(t, 5, p.MaxRetries)
	assert.Equal(t, 3*time.Second, p.Interval)
	assert.Equal(t, 30*time.Second, p.Timeout)
}

func TestSelectionPolicy(t *testing.T) {
	t.Setenv("RATE_MAX_TRANSIT_DAYS", "3")

	cfg, err := config.Load()
	require.NoError(t, err)

	p := cfg.SelectionPolicy()
	assert.Equal(t, "USPS", p.ReservedCarrier)
	assert.Equal(t, 3, p.MaxTransitDays)
	assert.Equal(t, 2, p.ReservedZoneCutoff)
}

func TestEscalationRecipients(t *testing.T) {
	t.Setenv("ESCALATION_TO", "ops@example.com, shipping@example.com ,")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"ops@example.com", "shipping@example.com"}, cfg.EscalationRecipients())
}
