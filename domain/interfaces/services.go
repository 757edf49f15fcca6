package interfaces

import (
	"context"

	"totopredict/domain/entities"
)

// PredictionService defines the interface for generating and listing predictions
type PredictionService interface {
	// Generate runs the engine over the stored history, then persists and announces the result
	Generate(ctx context.Context) (*entities.Prediction, error)

	// Recent returns up to limit stored predictions, newest first
	Recent(ctx context.Context, limit int) ([]*entities.Prediction, error)
}

// AccuracyService defines the interface for scoring predictions against results
type AccuracyService interface {
	// Compare scores a prediction against a draw without storing anything
	Compare(prediction *entities.Prediction, draw *entities.HistoricalDraw) *entities.AccuracyRecord

	// EvaluatePending scores every prediction whose following draw is now known.
	// Returns the records that were created.
	EvaluatePending(ctx context.Context, limit int) ([]*entities.AccuracyRecord, error)

	// HitRates summarizes every stored record into the "Hit 3+" .. "Hit 6" buckets
	HitRates(ctx context.Context) ([]entities.HitRate, error)
}

// DrawService defines the interface for recording and browsing official results
type DrawService interface {
	// Record validates and stores a draw
	Record(ctx context.Context, draw *entities.HistoricalDraw) error

	// Latest returns up to limit draws, newest first
	Latest(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error)

	// Page returns one page of draws plus the total number of draws
	Page(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error)
}

// MetricsRecorder receives domain measurements. Implementations must be safe for concurrent use.
type MetricsRecorder interface {
	RecordPrediction(confidence float64, usedFallback bool, iterations int, durationSeconds float64)
	RecordAccuracy(matchCount int, additionalMatch bool)
	RecordDrawRecorded()
}
