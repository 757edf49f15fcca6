package application

import (
	"context"
	"fmt"

	"totopredict/domain/engine"
	"totopredict/domain/entities"
	"totopredict/domain/interfaces"
	"totopredict/domain/services"
)

// PredictionHandler runs prediction use cases, one unit of work per call
type PredictionHandler interface {
	// GeneratePrediction runs the engine over stored history and stores the result
	GeneratePrediction(ctx context.Context) (*entities.Prediction, error)

	// RecentPredictions returns stored predictions, newest first
	RecentPredictions(ctx context.Context, limit int) ([]*entities.Prediction, error)

	// AccuracySummary returns the hit-rate buckets over every evaluated prediction
	AccuracySummary(ctx context.Context) ([]entities.HitRate, error)
}

type predictionHandler struct {
	uowFactory UnitOfWorkFactory
	engine     *engine.Engine
	metrics    interfaces.MetricsRecorder
}

// NewPredictionHandler creates a new PredictionHandler. metrics may be nil.
func NewPredictionHandler(uowFactory UnitOfWorkFactory, eng *engine.Engine, metrics interfaces.MetricsRecorder) PredictionHandler {
	return &predictionHandler{
		uowFactory: uowFactory,
		engine:     eng,
		metrics:    metrics,
	}
}

func (h *predictionHandler) GeneratePrediction(ctx context.Context) (*entities.Prediction, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		h.engine,
		uow.DrawRepository(),
		uow.PredictionRepository(),
		uow.EventBus(),
		h.metrics,
	)

	prediction, err := predictionService.Generate(ctx)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return prediction, nil
}

func (h *predictionHandler) RecentPredictions(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	predictionService := services.NewPredictionService(
		h.engine,
		uow.DrawRepository(),
		uow.PredictionRepository(),
		uow.EventBus(),
		h.metrics,
	)
	return predictionService.Recent(ctx, limit)
}

func (h *predictionHandler) AccuracySummary(ctx context.Context) ([]entities.HitRate, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accuracyService := services.NewAccuracyService(
		uow.DrawRepository(),
		uow.PredictionRepository(),
		uow.AccuracyRepository(),
		uow.EventBus(),
		h.metrics,
	)
	return accuracyService.HitRates(ctx)
}
