package application

import (
	"context"
	"fmt"
	"time"

	"totopredict/domain/interfaces"
	"totopredict/domain/services"

	log "github.com/sirupsen/logrus"
)

// evaluateBatchSize bounds how many predictions one evaluation pass loads
const evaluateBatchSize = 500

// AccuracyWorker periodically compares stored predictions with the draws that followed them
type AccuracyWorker struct {
	uowFactory UnitOfWorkFactory
	metrics    interfaces.MetricsRecorder
	interval   time.Duration
	trigger    chan struct{}
}

// NewAccuracyWorker creates a new accuracy worker. metrics may be nil.
func NewAccuracyWorker(uowFactory UnitOfWorkFactory, metrics interfaces.MetricsRecorder, interval time.Duration) *AccuracyWorker {
	return &AccuracyWorker{
		uowFactory: uowFactory,
		metrics:    metrics,
		interval:   interval,
		trigger:    make(chan struct{}, 1),
	}
}

// Trigger requests an evaluation pass without waiting for the next tick.
// Requests made while one is already queued are merged.
func (w *AccuracyWorker) Trigger() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// Start begins the accuracy worker and returns a function that stops it
func (w *AccuracyWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.WithField("interval", w.interval).Info("Accuracy worker started")

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			if _, err := w.EvaluateNow(ctx); err != nil {
				log.WithError(err).Error("Error evaluating pending predictions")
			}

			select {
			case <-ctx.Done():
				log.Info("Accuracy worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Accuracy worker shutting down (stop requested)...")
				return
			case <-w.trigger:
			case <-ticker.C:
			}
		}
	}()

	return func() {
		close(stopChan)
		<-done
	}
}

// EvaluateNow runs one evaluation pass and returns how many predictions were scored
func (w *AccuracyWorker) EvaluateNow(ctx context.Context) (int, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	accuracyService := services.NewAccuracyService(
		uow.DrawRepository(),
		uow.PredictionRepository(),
		uow.AccuracyRepository(),
		uow.EventBus(),
		w.metrics,
	)

	records, err := accuracyService.EvaluatePending(ctx, evaluateBatchSize)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if len(records) > 0 {
		log.WithField("evaluated", len(records)).Info("Completed accuracy evaluation")
	}
	return len(records), nil
}
