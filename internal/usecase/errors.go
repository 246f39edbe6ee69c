package usecase

import (
	"errors"

	"github.com/riskibarqy/matchday/internal/domain/prediction"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrPersistence           = errors.New("prediction store failure")
	ErrMissingMatchData      = prediction.ErrMissingMatchData
)
