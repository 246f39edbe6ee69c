package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/matchday/internal/domain/prediction"
	basecache "github.com/riskibarqy/matchday/internal/platform/cache"
)

const predictionKeyPrefix = "prediction:match:"

// PredictionRepository keeps found predictions in process memory. Misses are
// not cached since the prediction may be created right after.
type PredictionRepository struct {
	next  prediction.Repository
	cache *basecache.Store
}

func NewPredictionRepository(next prediction.Repository, cache *basecache.Store) *PredictionRepository {
	return &PredictionRepository{next: next, cache: cache}
}

func (r *PredictionRepository) FindByMatchID(ctx context.Context, matchID int64) (prediction.Prediction, bool, error) {
	key := predictionKey(matchID)
	if v, ok := r.cache.Get(ctx, key); ok {
		if item, ok := v.(prediction.Prediction); ok {
			return item, true, nil
		}
	}

	item, exists, err := r.next.FindByMatchID(ctx, matchID)
	if err != nil || !exists {
		return item, exists, err
	}

	r.cache.Set(ctx, key, item)
	return item, true, nil
}

func (r *PredictionRepository) InsertIfAbsent(ctx context.Context, item prediction.Prediction) error {
	if err := r.next.InsertIfAbsent(ctx, item); err != nil {
		return err
	}
	r.cache.Delete(ctx, predictionKey(item.MatchID))
	return nil
}

func predictionKey(matchID int64) string {
	return predictionKeyPrefix + strconv.FormatInt(matchID, 10)
}
