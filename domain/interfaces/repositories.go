package interfaces

import (
	"context"

	"totopredict/domain/entities"
	"totopredict/domain/events"
)

// DrawRepository defines the data access interface for historical draws
type DrawRepository interface {
	// Save inserts a draw, or replaces the stored draw with the same draw number
	Save(ctx context.Context, draw *entities.HistoricalDraw) error

	// GetByDrawNo returns nil when the draw does not exist
	GetByDrawNo(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error)

	// GetLatest returns up to limit draws, newest draw number first
	GetLatest(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error)

	// GetPage returns one page of draws, newest first, plus the total number of draws.
	// Pages start at 1.
	GetPage(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error)

	// GetNextAfter returns the earliest draw with a draw number greater than drawNo, or nil
	GetNextAfter(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error)
}

// PredictionRepository defines the data access interface for predictions
type PredictionRepository interface {
	Save(ctx context.Context, prediction *entities.Prediction) error

	// GetByID returns nil when the prediction does not exist
	GetByID(ctx context.Context, id string) (*entities.Prediction, error)

	// GetRecent returns up to limit predictions, newest first
	GetRecent(ctx context.Context, limit int) ([]*entities.Prediction, error)

	// GetUnevaluated returns up to limit predictions without an accuracy record, oldest first
	GetUnevaluated(ctx context.Context, limit int) ([]*entities.Prediction, error)
}

// AccuracyRepository defines the data access interface for accuracy records
type AccuracyRepository interface {
	// Save stores the record and sets its ID
	Save(ctx context.Context, record *entities.AccuracyRecord) error

	// GetByPrediction returns nil when the prediction has not been evaluated
	GetByPrediction(ctx context.Context, predictionID string) (*entities.AccuracyRecord, error)

	// GetAll returns up to limit records, newest first. A non-positive limit returns every record.
	GetAll(ctx context.Context, limit int) ([]*entities.AccuracyRecord, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher holds events until the surrounding transaction finishes
type TransactionalEventPublisher interface {
	EventPublisher

	// Flush publishes every pending event. Called after commit.
	Flush(ctx context.Context) error

	// Discard drops every pending event. Called after rollback.
	Discard()
}
