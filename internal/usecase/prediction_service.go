package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	"github.com/riskibarqy/matchday/internal/platform/logging"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"go.opentelemetry.io/otel/attribute"
)

// PredictionService reads or lazily creates the single stored prediction of
// a match.
type PredictionService struct {
	repo   prediction.Repository
	logger *logging.Logger
	flight resilience.Group[int64, prediction.Prediction]
	now    func() time.Time
}

func NewPredictionService(repo prediction.Repository, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetPrediction returns the stored prediction for matchID, generating and
// persisting one on first request. Once stored, the team names passed on
// later calls are ignored.
func (s *PredictionService) GetPrediction(ctx context.Context, matchID int64, homeTeam, awayTeam string) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetPrediction")
	defer span.End()
	span.SetAttributes(attribute.Int64("match.id", matchID))

	if matchID <= 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(homeTeam) == "" || strings.TrimSpace(awayTeam) == "" {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%d", ErrMissingMatchData, matchID)
	}

	item, err, _ := s.flight.Do(matchID, func() (prediction.Prediction, error) {
		return s.readOrCreate(ctx, matchID, homeTeam, awayTeam)
	})
	if err != nil {
		span.RecordError(err)
		return prediction.Prediction{}, err
	}

	return item, nil
}

// FindPrediction returns a stored prediction without creating one.
func (s *PredictionService) FindPrediction(ctx context.Context, matchID int64) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.FindPrediction")
	defer span.End()

	if matchID <= 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: match id must be positive", ErrInvalidInput)
	}

	item, exists, err := s.repo.FindByMatchID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, persistenceError(err, "find prediction match=%d", matchID)
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction match=%d", ErrNotFound, matchID)
	}

	return item, nil
}

func (s *PredictionService) readOrCreate(ctx context.Context, matchID int64, homeTeam, awayTeam string) (prediction.Prediction, error) {
	stored, exists, err := s.repo.FindByMatchID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, persistenceError(err, "find prediction match=%d", matchID)
	}
	if exists {
		return stored, nil
	}

	computed, err := prediction.Generate(homeTeam, awayTeam)
	if err != nil {
		return prediction.Prediction{}, err
	}

	item := prediction.Prediction{
		MatchID:          matchID,
		HomeTeam:         homeTeam,
		AwayTeam:         awayTeam,
		Odds:             computed.Odds,
		Percentages:      computed.Percentages,
		PredictedOutcome: computed.PredictedOutcome,
		Confidence:       computed.Confidence,
		CreatedAt:        s.now().UTC(),
	}
	if err := s.repo.InsertIfAbsent(ctx, item); err != nil {
		return prediction.Prediction{}, persistenceError(err, "insert prediction match=%d", matchID)
	}

	// A concurrent writer in another process may have won the insert; the
	// re-read returns whichever row was committed first.
	persisted, exists, err := s.repo.FindByMatchID(ctx, matchID)
	if err != nil {
		return prediction.Prediction{}, persistenceError(err, "reload prediction match=%d", matchID)
	}
	if !exists {
		return prediction.Prediction{}, persistenceError(crerr.New("prediction missing after insert"), "reload prediction match=%d", matchID)
	}

	s.logger.InfoContext(ctx, "prediction created",
		"match_id", matchID,
		"outcome", string(persisted.PredictedOutcome),
		"confidence", persisted.Confidence,
	)
	return persisted, nil
}

func persistenceError(err error, format string, args ...any) error {
	return crerr.Mark(crerr.Wrapf(err, format, args...), ErrPersistence)
}
