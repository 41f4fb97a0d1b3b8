package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quotedesk/backend-rfq/internal/config"
)

func TestLoadRequiresBackends(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("COST_PROVIDER", "mock")
	t.Setenv("EXTRACTION_PROVIDER", "mock")

	_, err := config.Load()
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadRedisOnlySkipsBackendValidation(t *testing.T) {
	// The seeder only touches Redis and must load without a database or
	// cost backend configured.
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COST_API_BASE_URL", "")
	t.Setenv("EXTRACTION_API_BASE_URL", "")
	t.Setenv("COST_PROVIDER", "")
	t.Setenv("EXTRACTION_PROVIDER", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CURRENCY_CODE", "")

	cfg, err := config.LoadRedisOnly()
	require.NoError(t, err)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, "EUR", cfg.CurrencyCode)
}

func TestLoadRedisOnlyStillRequiresRedis(t *testing.T) {
	t.Setenv("REDIS_URL", "")
	_, err := config.LoadRedisOnly()
	require.ErrorContains(t, err, "REDIS_URL")
}
