package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const keyPrefix = "matchday:prediction:"

// PredictionRepository is a read-through Redis cache in front of the durable
// store. Redis failures are logged and the call falls through.
type PredictionRepository struct {
	next   prediction.Repository
	client redis.UniversalClient
	ttl    time.Duration
	logger *logging.Logger
}

func NewPredictionRepository(next prediction.Repository, client redis.UniversalClient, ttl time.Duration, logger *logging.Logger) *PredictionRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionRepository{next: next, client: client, ttl: ttl, logger: logger}
}

type cachedPrediction struct {
	MatchID          int64     `json:"match_id"`
	HomeTeam         string    `json:"home_team"`
	AwayTeam         string    `json:"away_team"`
	OddsHome         float64   `json:"odds_home"`
	OddsDraw         float64   `json:"odds_draw"`
	OddsAway         float64   `json:"odds_away"`
	PercentHome      int       `json:"percent_home"`
	PercentDraw      int       `json:"percent_draw"`
	PercentAway      int       `json:"percent_away"`
	PredictedOutcome string    `json:"predicted_outcome"`
	Confidence       int       `json:"confidence"`
	CreatedAt        time.Time `json:"created_at"`
}

func (r *PredictionRepository) FindByMatchID(ctx context.Context, matchID int64) (prediction.Prediction, bool, error) {
	key := predictionKey(matchID)

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		item, decodeErr := decodePrediction(raw)
		if decodeErr == nil {
			return item, true, nil
		}
		r.logger.WarnContext(ctx, "discard undecodable cached prediction", "key", key, "error", decodeErr)
	case errors.Is(err, redis.Nil):
	default:
		r.logger.WarnContext(ctx, "redis get prediction failed", "key", key, "error", err)
	}

	item, exists, err := r.next.FindByMatchID(ctx, matchID)
	if err != nil || !exists {
		return item, exists, err
	}

	r.store(ctx, key, item)
	return item, true, nil
}

func (r *PredictionRepository) InsertIfAbsent(ctx context.Context, item prediction.Prediction) error {
	return r.next.InsertIfAbsent(ctx, item)
}

func (r *PredictionRepository) store(ctx context.Context, key string, item prediction.Prediction) {
	raw, err := encodePrediction(item)
	if err != nil {
		r.logger.WarnContext(ctx, "encode prediction for redis failed", "key", key, "error", err)
		return
	}
	// SetNX: the stored row never changes, so an existing entry is already correct.
	if err := r.client.SetNX(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.WarnContext(ctx, "redis set prediction failed", "key", key, "error", err)
	}
}

func encodePrediction(item prediction.Prediction) ([]byte, error) {
	return sonic.Marshal(cachedPrediction{
		MatchID:          item.MatchID,
		HomeTeam:         item.HomeTeam,
		AwayTeam:         item.AwayTeam,
		OddsHome:         item.Odds.Home,
		OddsDraw:         item.Odds.Draw,
		OddsAway:         item.Odds.Away,
		PercentHome:      item.Percentages.Home,
		PercentDraw:      item.Percentages.Draw,
		PercentAway:      item.Percentages.Away,
		PredictedOutcome: string(item.PredictedOutcome),
		Confidence:       item.Confidence,
		CreatedAt:        item.CreatedAt.UTC(),
	})
}

func decodePrediction(raw []byte) (prediction.Prediction, error) {
	var cached cachedPrediction
	if err := sonic.Unmarshal(raw, &cached); err != nil {
		return prediction.Prediction{}, err
	}

	outcome := prediction.Outcome(cached.PredictedOutcome)
	if cached.MatchID <= 0 || !outcome.Valid() {
		return prediction.Prediction{}, errors.New("cached prediction is incomplete")
	}

	return prediction.Prediction{
		MatchID:          cached.MatchID,
		HomeTeam:         cached.HomeTeam,
		AwayTeam:         cached.AwayTeam,
		Odds:             prediction.Odds{Home: cached.OddsHome, Draw: cached.OddsDraw, Away: cached.OddsAway},
		Percentages:      prediction.Percentages{Home: cached.PercentHome, Draw: cached.PercentDraw, Away: cached.PercentAway},
		PredictedOutcome: outcome,
		Confidence:       cached.Confidence,
		CreatedAt:        cached.CreatedAt.UTC(),
	}, nil
}

func predictionKey(matchID int64) string {
	return keyPrefix + strconv.FormatInt(matchID, 10)
}
