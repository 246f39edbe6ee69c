package prediction

import "context"

// Repository persists predictions keyed by match id.
type Repository interface {
	FindByMatchID(ctx context.Context, matchID int64) (Prediction, bool, error)
	// InsertIfAbsent stores item unless a prediction for the same match
	// already exists, in which case it is a no-op.
	InsertIfAbsent(ctx context.Context, item Prediction) error
}
