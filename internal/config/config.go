package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	AppEnv             string
	Port               string
	DatabaseURL        string
	RedisURL           string
	CORSAllowedOrigins []string

	// Remote pricing backend.
	CostProvider   string // "http" or "mock"
	CostAPIBaseURL string
	CostAPIKey     string

	// Document extraction backend.
	ExtractionProvider   string // "http" or "mock"
	ExtractionAPIBaseURL string

	CurrencyCode string

	// Outbound HTTP tuning shared by remote clients.
	OutboundTimeout    time.Duration
	RetryMaxAttempts   int
	RetryBase          time.Duration
	RetryJitterPercent float64

	// Circuit breaker for the pricing backend.
	CircuitCostMinRequests int
	CircuitCostFailureRate float64
	CircuitCostOpenFor     time.Duration

	// Rate limit applied to document uploads, in ulule/limiter notation.
	UploadRateLimit string

	RepriceQueueConcurrency int
	RepriceTaskTimeout      time.Duration
}

// Load reads configuration from environment variables and optional .env files.
func Load() (*Config, error) {
	cfg, err := build()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	if cfg.CostProvider == "http" && cfg.CostAPIBaseURL == "" {
		return nil, errors.New("COST_API_BASE_URL is required when COST_PROVIDER=http")
	}
	if cfg.ExtractionProvider == "http" && cfg.ExtractionAPIBaseURL == "" {
		return nil, errors.New("EXTRACTION_API_BASE_URL is required when EXTRACTION_PROVIDER=http")
	}
	return cfg, nil
}

// LoadRedisOnly reads configuration for tools that talk only to Redis, such
// as the pricebook seeder. REDIS_URL is the sole required variable.
func LoadRedisOnly() (*Config, error) {
	cfg, err := build()
	if err != nil {
		return nil, err
	}
	if cfg.RedisURL == "" {
		return nil, errors.New("REDIS_URL is required")
	}
	return cfg, nil
}

func build() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(env.Provider("", ".", func(s string) string { return s }), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := &Config{
		AppEnv:             valueOrDefault(k.String("APP_ENV"), "development"),
		Port:               valueOrDefault(k.String("PORT"), "8080"),
		DatabaseURL:        k.String("DATABASE_URL"),
		RedisURL:           k.String("REDIS_URL"),
		CORSAllowedOrigins: splitAndTrim(k.String("CORS_ALLOWED_ORIGINS")),

		CostProvider:   valueOrDefault(k.String("COST_PROVIDER"), "http"),
		CostAPIBaseURL: strings.TrimRight(strings.TrimSpace(k.String("COST_API_BASE_URL")), "/"),
		CostAPIKey:     strings.TrimSpace(k.String("COST_API_KEY")),

		ExtractionProvider:   valueOrDefault(k.String("EXTRACTION_PROVIDER"), "http"),
		ExtractionAPIBaseURL: strings.TrimRight(strings.TrimSpace(k.String("EXTRACTION_API_BASE_URL")), "/"),

		CurrencyCode: valueOrDefault(k.String("CURRENCY_CODE"), "EUR"),

		OutboundTimeout:    parseDuration(k.String("OUTBOUND_TIMEOUT"), "30s"),
		RetryMaxAttempts:   parseInt(k.String("RETRY_MAX_ATTEMPTS"), 1),
		RetryBase:          parseDuration(k.String("RETRY_BASE"), "200ms"),
		RetryJitterPercent: parseFloat(k.String("RETRY_JITTER_PERCENT"), 0.2),

		CircuitCostMinRequests: parseInt(k.String("CIRCUIT_COST_MIN_REQUESTS"), 10),
		CircuitCostFailureRate: parseFloat(k.String("CIRCUIT_COST_FAILURE_RATE"), 0.5),
		CircuitCostOpenFor:     parseDuration(k.String("CIRCUIT_COST_OPEN_FOR"), "30s"),

		UploadRateLimit: valueOrDefault(k.String("UPLOAD_RATE_LIMIT"), "20-M"),

		RepriceQueueConcurrency: parseInt(k.String("REPRICE_QUEUE_CONCURRENCY"), 4),
		RepriceTaskTimeout:      parseDuration(k.String("REPRICE_TASK_TIMEOUT"), "2m"),
	}

	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	port := strings.TrimSpace(c.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

func parseDuration(value, fallback string) time.Duration {
	base := strings.TrimSpace(value)
	if base == "" {
		base = fallback
	}
	d, err := time.ParseDuration(base)
	if err != nil {
		d, _ = time.ParseDuration(fallback)
	}
	return d
}

func parseInt(value string, fallback int) int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(value string, fallback float64) float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fallback
	}
	return f
}

// LoadForTests allows tests to override environment variables without touching the real environment.
func LoadForTests(env map[string]string) (*Config, error) {
	original := make(map[string]string, len(env))
	for key := range env {
		original[key] = os.Getenv(key)
		if err := setEnvVar(key, env[key]); err != nil {
			return nil, err
		}
	}
	cfg, err := Load()
	restoreErr := restoreEnv(original)
	if err != nil {
		return nil, err
	}
	return cfg, restoreErr
}

func setEnvVar(key, value string) error {
	if value == "" {
		return os.Unsetenv(key)
	}
	return os.Setenv(key, value)
}

func restoreEnv(values map[string]string) error {
	var errs []string
	for key, value := range values {
		if err := setEnvVar(key, value); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", key, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("restore env: %s", strings.Join(errs, "; "))
	}
	return nil
}
