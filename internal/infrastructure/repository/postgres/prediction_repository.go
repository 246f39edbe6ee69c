package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/matchday/internal/domain/prediction"
	qb "github.com/riskibarqy/matchday/internal/platform/querybuilder"
)

const predictionTable = "predictions"

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) FindByMatchID(ctx context.Context, matchID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select(predictionColumns...).From(predictionTable).
		Where(qb.Eq("match_id", matchID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isPreparedStatementConflict(err) {
			return r.findByMatchIDInline(ctx, matchID)
		}
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction match_id=%d: %w", matchID, err)
	}

	return predictionFromRow(row), true, nil
}

// InsertIfAbsent relies on the unique match_id index; a conflicting insert
// leaves the stored row untouched.
func (r *PredictionRepository) InsertIfAbsent(ctx context.Context, item prediction.Prediction) error {
	query, args, err := qb.InsertModel(predictionTable, predictionToRow(item), "ON CONFLICT (match_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build insert prediction query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert prediction match_id=%d: %w", item.MatchID, err)
	}
	return nil
}

// findByMatchIDInline avoids bind parameters when a pooler has dropped or
// mixed up the unnamed prepared statement.
func (r *PredictionRepository) findByMatchIDInline(ctx context.Context, matchID int64) (prediction.Prediction, bool, error) {
	query, _, err := qb.Select(predictionColumns...).From(predictionTable).
		Where(qb.Expr("match_id = " + strconv.FormatInt(matchID, 10))).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction inline query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction inline match_id=%d: %w", matchID, err)
	}

	return predictionFromRow(row), true, nil
}
