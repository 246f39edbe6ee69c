package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/matchday/internal/domain/fixture"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/platform/cache"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultOddsConcurrency       = 8
	defaultPredictionConcurrency = 16
	scoreboardCacheKeyPrefix     = "scoreboard:"
)

// FixtureProvider is the sports-data source behind the scoreboard.
type FixtureProvider interface {
	FetchLiveFixtures(ctx context.Context) ([]ExternalFixture, error)
	// FetchFixturesByDate takes a YYYY-MM-DD date.
	FetchFixturesByDate(ctx context.Context, date string) ([]ExternalFixture, error)
	FetchOddsByFixture(ctx context.Context, fixtureID int64) (ExternalOdds, error)
}

type PredictionProvider interface {
	GetPrediction(ctx context.Context, matchID int64, homeTeam, awayTeam string) (prediction.Prediction, error)
}

type MatchdayConfig struct {
	Location              *time.Location
	OddsConcurrency       int
	PredictionConcurrency int
}

// MatchdayService builds the day's scoreboard from the provider and attaches
// a prediction to every match.
type MatchdayService struct {
	provider    FixtureProvider
	predictions PredictionProvider
	cache       *cache.Store
	logger      *logging.Logger
	cfg         MatchdayConfig
	now         func() time.Time
}

func NewMatchdayService(provider FixtureProvider, predictions PredictionProvider, store *cache.Store, logger *logging.Logger, cfg MatchdayConfig) *MatchdayService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.OddsConcurrency <= 0 {
		cfg.OddsConcurrency = defaultOddsConcurrency
	}
	if cfg.PredictionConcurrency <= 0 {
		cfg.PredictionConcurrency = defaultPredictionConcurrency
	}

	return &MatchdayService{
		provider:    provider,
		predictions: predictions,
		cache:       store,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// Scoreboard returns today's fixtures grouped by league. A failed primary
// fetch fails the call; missing odds or predictions only blank that match.
func (s *MatchdayService) Scoreboard(ctx context.Context) ([]fixture.LeagueGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.Scoreboard")
	defer span.End()

	date := s.now().In(s.cfg.Location).Format(time.DateOnly)
	if s.cache == nil {
		return s.buildScoreboard(ctx, date)
	}

	return cache.Load(ctx, s.cache, scoreboardCacheKeyPrefix+date, func(ctx context.Context) ([]fixture.LeagueGroup, error) {
		return s.buildScoreboard(ctx, date)
	})
}

// MatchPrediction returns the stored or newly created prediction of a match.
func (s *MatchdayService) MatchPrediction(ctx context.Context, matchID int64, homeTeam, awayTeam string) (prediction.Prediction, error) {
	return s.predictions.GetPrediction(ctx, matchID, homeTeam, awayTeam)
}

func (s *MatchdayService) buildScoreboard(ctx context.Context, date string) ([]fixture.LeagueGroup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchdayService.buildScoreboard")
	defer span.End()

	var live, today []ExternalFixture
	fetches := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	fetches.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchLiveFixtures(ctx)
		if err != nil {
			return err
		}
		live = items
		return nil
	})
	fetches.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchFixturesByDate(ctx, date)
		if err != nil {
			return err
		}
		today = items
		return nil
	})
	if err := fetches.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	oddsByID, err := s.fetchOdds(ctx, FixtureIDs(live, today))
	if err != nil {
		return nil, err
	}

	groups := AggregateFixtures(live, today, oddsByID, s.cfg.Location)
	s.attachPredictions(ctx, groups)

	span.SetAttributes(
		attribute.Int("fixtures.live", len(live)),
		attribute.Int("fixtures.today", len(today)),
		attribute.Int("odds.count", len(oddsByID)),
		attribute.Int("leagues.count", len(groups)),
	)
	return groups, nil
}

// fetchOdds looks up odds for every id on a bounded pool. A failed lookup
// means the fixture has no odds.
func (s *MatchdayService) fetchOdds(ctx context.Context, ids []int64) (map[int64]ExternalOdds, error) {
	out := make(map[int64]ExternalOdds, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	workers, err := ants.NewPool(min(s.cfg.OddsConcurrency, len(ids)))
	if err != nil {
		return nil, fmt.Errorf("create odds worker pool: %w", err)
	}
	defer workers.Release()

	slots := make([]*ExternalOdds, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		if err := workers.Submit(func() {
			defer wg.Done()

			odds, err := s.provider.FetchOddsByFixture(ctx, id)
			if err != nil {
				s.logger.DebugContext(ctx, "odds unavailable", "fixture_id", id, "error", err)
				return
			}
			slots[i] = &odds
		}); err != nil {
			wg.Done()
			s.logger.WarnContext(ctx, "submit odds lookup failed", "fixture_id", id, "error", err)
		}
	}
	wg.Wait()

	for i, odds := range slots {
		if odds == nil {
			continue
		}
		if odds.FixtureID == 0 {
			odds.FixtureID = ids[i]
		}
		out[ids[i]] = *odds
	}
	return out, nil
}

func (s *MatchdayService) attachPredictions(ctx context.Context, groups []fixture.LeagueGroup) {
	if s.predictions == nil {
		return
	}

	var matches []*fixture.Match
	for gi := range groups {
		for mi := range groups[gi].Matches {
			matches = append(matches, &groups[gi].Matches[mi])
		}
	}

	enrich := iter.Iterator[*fixture.Match]{MaxGoroutines: s.cfg.PredictionConcurrency}
	enrich.ForEach(matches, func(item **fixture.Match) {
		match := *item
		result, err := s.predictions.GetPrediction(ctx, match.ID, match.Home.Name, match.Away.Name)
		if err != nil {
			s.logger.WarnContext(ctx, "prediction unavailable", "match_id", match.ID, "error", err)
			return
		}
		match.Prediction = &result
	})
}
