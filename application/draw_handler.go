package application

import (
	"context"
	"fmt"

	"totopredict/domain/entities"
	"totopredict/domain/interfaces"
	"totopredict/domain/services"

	log "github.com/sirupsen/logrus"
)

// DrawHandler runs draw use cases, one unit of work per call
type DrawHandler interface {
	// RecordDraw validates and stores a draw, replacing any draw with the same number
	RecordDraw(ctx context.Context, draw *entities.HistoricalDraw) error

	// LatestDraws returns the newest draws
	LatestDraws(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error)

	// DrawHistory returns one page of draws plus the total count
	DrawHistory(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error)

	// SeedDraws stores draws that are not yet known without publishing events.
	// Returns how many draws were added.
	SeedDraws(ctx context.Context, draws []*entities.HistoricalDraw) (int, error)
}

type drawHandler struct {
	uowFactory UnitOfWorkFactory
	rangeMin   int
	rangeMax   int
	metrics    interfaces.MetricsRecorder
}

// NewDrawHandler creates a new DrawHandler validating numbers against [rangeMin, rangeMax]
func NewDrawHandler(uowFactory UnitOfWorkFactory, rangeMin, rangeMax int, metrics interfaces.MetricsRecorder) DrawHandler {
	return &drawHandler{
		uowFactory: uowFactory,
		rangeMin:   rangeMin,
		rangeMax:   rangeMax,
		metrics:    metrics,
	}
}

func (h *drawHandler) drawService(uow UnitOfWork) interfaces.DrawService {
	return services.NewDrawService(h.rangeMin, h.rangeMax, uow.DrawRepository(), uow.EventBus(), h.metrics)
}

func (h *drawHandler) RecordDraw(ctx context.Context, draw *entities.HistoricalDraw) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := h.drawService(uow).Record(ctx, draw); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (h *drawHandler) LatestDraws(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return h.drawService(uow).Latest(ctx, limit)
}

func (h *drawHandler) DrawHistory(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return h.drawService(uow).Page(ctx, page, limit)
}

func (h *drawHandler) SeedDraws(ctx context.Context, draws []*entities.HistoricalDraw) (int, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	drawRepo := uow.DrawRepository()
	added := 0
	for _, draw := range draws {
		if err := draw.Validate(h.rangeMin, h.rangeMax); err != nil {
			return 0, fmt.Errorf("%w: %v", services.ErrInvalidDraw, err)
		}

		existing, err := drawRepo.GetByDrawNo(ctx, draw.DrawNo)
		if err != nil {
			return 0, fmt.Errorf("failed to check draw %d: %w", draw.DrawNo, err)
		}
		if existing != nil {
			continue
		}

		if err := drawRepo.Save(ctx, draw); err != nil {
			return 0, fmt.Errorf("failed to save draw %d: %w", draw.DrawNo, err)
		}
		added++
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"provided": len(draws),
		"added":    added,
	}).Info("Seeded historical draws")
	return added, nil
}
