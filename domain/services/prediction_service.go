package services

import (
	"context"
	"fmt"
	"time"

	"totopredict/domain/engine"
	"totopredict/domain/entities"
	"totopredict/domain/events"
	"totopredict/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultListLimit is used when a caller passes a non-positive limit
	DefaultListLimit = 10

	// MaxListLimit caps list queries
	MaxListLimit = 100
)

// predictionService implements business logic for generating predictions
type predictionService struct {
	engine         *engine.Engine
	drawRepo       interfaces.DrawRepository
	predictionRepo interfaces.PredictionRepository
	eventPublisher interfaces.EventPublisher
	metrics        interfaces.MetricsRecorder
}

// NewPredictionService creates a new prediction service. metrics may be nil.
func NewPredictionService(
	eng *engine.Engine,
	drawRepo interfaces.DrawRepository,
	predictionRepo interfaces.PredictionRepository,
	eventPublisher interfaces.EventPublisher,
	metrics interfaces.MetricsRecorder,
) interfaces.PredictionService {
	return &predictionService{
		engine:         eng,
		drawRepo:       drawRepo,
		predictionRepo: predictionRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
	}
}

// Generate runs the engine over the analysis window of stored draws. The most
// recent draw feeds the anti-repeat rule and is recorded as BasedOnDrawNo.
func (s *predictionService) Generate(ctx context.Context) (*entities.Prediction, error) {
	cfg := s.engine.Config()

	history, err := s.drawRepo.GetLatest(ctx, cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load draw history: %w", err)
	}

	var lastDraw []int
	var basedOn int64
	if len(history) > 0 {
		lastDraw = history[0].WinningNumbers
		basedOn = history[0].DrawNo
	}

	start := time.Now()
	prediction, err := s.engine.Generate(ctx, lastDraw, history)
	if err != nil {
		return nil, fmt.Errorf("failed to generate prediction: %w", err)
	}
	elapsed := time.Since(start)
	prediction.BasedOnDrawNo = basedOn

	if err := s.predictionRepo.Save(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	if err := s.eventPublisher.Publish(events.PredictionCreatedEvent{
		PredictionID:    prediction.ID,
		Numbers:         prediction.Numbers,
		ConfidenceScore: prediction.ConfidenceScore,
		UsedFallback:    prediction.UsedFallback,
		BasedOnDrawNo:   prediction.BasedOnDrawNo,
	}); err != nil {
		log.WithError(err).WithField("predictionID", prediction.ID).Error("Failed to publish prediction created event")
	}

	if s.metrics != nil {
		s.metrics.RecordPrediction(prediction.ConfidenceScore, prediction.UsedFallback, prediction.Iterations, elapsed.Seconds())
	}

	log.WithFields(log.Fields{
		"predictionID":  prediction.ID,
		"numbers":       prediction.Numbers,
		"confidence":    prediction.ConfidenceScore,
		"accepted":      prediction.AcceptedCount,
		"iterations":    prediction.Iterations,
		"historySize":   len(history),
		"basedOnDrawNo": basedOn,
		"duration":      elapsed,
	}).Info("Generated prediction")

	return prediction, nil
}

// Recent returns the newest stored predictions
func (s *predictionService) Recent(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	predictions, err := s.predictionRepo.GetRecent(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get recent predictions: %w", err)
	}
	return predictions, nil
}

// ClampLimit applies DefaultListLimit to non-positive limits and caps at MaxListLimit
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
