package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday/external/apifootball"
	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	cacherepo "github.com/riskibarqy/matchday/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/redisstore"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const redisPingTimeout = 5 * time.Second

// Server is the HTTP server plus the connections it owns.
type Server struct {
	HTTP    *http.Server
	closers []func() error
}

// Close releases the store connections. Call after HTTP shutdown.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	out := &Server{}
	predictionRepo, err := buildPredictionRepository(ctx, cfg, logger, out)
	if err != nil {
		_ = out.Close()
		return nil, err
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballKey,
		Timezone:   cfg.APIFootballTimezone,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     logger.Named("apifootball"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})

	predictionSvc := usecase.NewPredictionService(predictionRepo, logger)
	matchdaySvc := usecase.NewMatchdayService(
		provider,
		predictionSvc,
		cache.NewStore(cfg.ScoreboardCacheTTL),
		logger,
		usecase.MatchdayConfig{
			Location:              cfg.Location,
			OddsConcurrency:       cfg.OddsFetchConcurrency,
			PredictionConcurrency: cfg.PredictionConcurrency,
		},
	)

	handler := httpapi.NewHandler(matchdaySvc, predictionSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	out.HTTP = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return out, nil
}

// buildPredictionRepository stacks the in-process cache over the optional
// redis cache over the primary store.
func buildPredictionRepository(ctx context.Context, cfg config.Config, logger *logging.Logger, out *Server) (prediction.Repository, error) {
	var repo prediction.Repository
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory prediction store", "storage_driver", cfg.StorageDriver)
		repo = memory.NewPredictionRepository(nil)
	default:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, db.Close)
		repo = postgres.NewPredictionRepository(db)
	}

	if cfg.RedisEnabled {
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		out.closers = append(out.closers, client.Close)
		repo = redisstore.NewPredictionRepository(repo, client, cfg.RedisPredictionTTL, logger.Named("redisstore"))
		logger.Info("redis prediction cache enabled", "ttl", cfg.RedisPredictionTTL.String())
	}

	return cacherepo.NewPredictionRepository(repo, cache.NewStore(cfg.PredictionCacheTTL)), nil
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres",
		NormalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func openRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}
