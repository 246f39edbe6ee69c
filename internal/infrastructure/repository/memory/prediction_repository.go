package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/matchday/internal/domain/prediction"
)

type PredictionRepository struct {
	mu      sync.RWMutex
	byMatch map[int64]prediction.Prediction
}

func NewPredictionRepository(items []prediction.Prediction) *PredictionRepository {
	byMatch := make(map[int64]prediction.Prediction, len(items))
	for _, item := range items {
		if _, exists := byMatch[item.MatchID]; exists {
			continue
		}
		byMatch[item.MatchID] = item
	}

	return &PredictionRepository{byMatch: byMatch}
}

func (r *PredictionRepository) FindByMatchID(_ context.Context, matchID int64) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byMatch[matchID]
	return item, ok, nil
}

func (r *PredictionRepository) InsertIfAbsent(_ context.Context, item prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byMatch[item.MatchID]; exists {
		return nil
	}
	r.byMatch[item.MatchID] = item
	return nil
}
