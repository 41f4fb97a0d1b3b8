package main

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/quotedesk/backend-rfq/internal/config"
	"github.com/quotedesk/backend-rfq/internal/costing"
	"github.com/quotedesk/backend-rfq/internal/lock"
	"github.com/quotedesk/backend-rfq/internal/obs"
	"github.com/quotedesk/backend-rfq/internal/queue"
	"github.com/quotedesk/backend-rfq/internal/quote"
	"github.com/quotedesk/backend-rfq/internal/resilience"
)

// The worker owns the asynchronous side of the pipeline: reprice tasks for
// saved quotes. It shares the cost backend configuration with the API so a
// reprice run prices exactly like a synchronous request would.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("env", cfg.AppEnv).Str("component", "worker").Logger()

	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "rfq"), nil)

	ctx := context.Background()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}

	costBreaker := resilience.NewBreaker(cfg.CircuitCostMinRequests, cfg.CircuitCostFailureRate, cfg.CircuitCostOpenFor).
		WithTarget("cost-backend").
		WithLogger(logger)
	var costClient costing.Client
	switch cfg.CostProvider {
	case "mock":
		costClient = costing.MockClient{Currency: cfg.CurrencyCode}
	default:
		costClient = &costing.HTTPClient{
			BaseURL: cfg.CostAPIBaseURL,
			APIKey:  cfg.CostAPIKey,
			HTTP: &resilience.HTTPClient{
				Client:      &http.Client{},
				Breaker:     costBreaker,
				BaseBackoff: cfg.RetryBase,
				MaxAttempts: cfg.RetryMaxAttempts,
				Jitter:      cfg.RetryJitterPercent,
				Timeout:     cfg.OutboundTimeout,
			},
		}
	}

	processor := &queue.RepriceProcessor{
		Quotes:       &quote.Service{DB: pool},
		Orchestrator: &costing.Orchestrator{Client: costClient, Logger: logger},
		Locker:       lock.Locker{R: redisClient, TTL: cfg.RepriceTaskTimeout},
		Logger:       logger,
	}

	taskRedis, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url for task queue")
	}
	srv := asynq.NewServer(taskRedis, asynq.Config{
		Concurrency: cfg.RepriceQueueConcurrency,
		BaseContext: func() context.Context { return ctx },
		Logger:      asynqLogger{logger: logger},
	})

	logger.Info().Int("concurrency", cfg.RepriceQueueConcurrency).Msg("worker starting")
	if err := srv.Run(queue.Mux(processor)); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}

// asynqLogger adapts zerolog to asynq's logging interface.
type asynqLogger struct {
	logger zerolog.Logger
}

func (l asynqLogger) Debug(args ...any) { l.logger.Debug().Msgf("%v", args) }
func (l asynqLogger) Info(args ...any)  { l.logger.Info().Msgf("%v", args) }
func (l asynqLogger) Warn(args ...any)  { l.logger.Warn().Msgf("%v", args) }
func (l asynqLogger) Error(args ...any) { l.logger.Error().Msgf("%v", args) }
func (l asynqLogger) Fatal(args ...any) { l.logger.Fatal().Msgf("%v", args) }

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}
