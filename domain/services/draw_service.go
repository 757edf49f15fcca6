package services

import (
	"context"
	"fmt"

	"totopredict/domain/entities"
	"totopredict/domain/events"
	"totopredict/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// drawService records and lists official results
type drawService struct {
	rangeMin       int
	rangeMax       int
	drawRepo       interfaces.DrawRepository
	eventPublisher interfaces.EventPublisher
	metrics        interfaces.MetricsRecorder
}

// NewDrawService creates a new draw service validating numbers against [rangeMin, rangeMax]
func NewDrawService(
	rangeMin, rangeMax int,
	drawRepo interfaces.DrawRepository,
	eventPublisher interfaces.EventPublisher,
	metrics interfaces.MetricsRecorder,
) interfaces.DrawService {
	return &drawService{
		rangeMin:       rangeMin,
		rangeMax:       rangeMax,
		drawRepo:       drawRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
	}
}

// Record validates and stores a draw
func (s *drawService) Record(ctx context.Context, draw *entities.HistoricalDraw) error {
	if err := draw.Validate(s.rangeMin, s.rangeMax); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDraw, err)
	}

	if err := s.drawRepo.Save(ctx, draw); err != nil {
		return fmt.Errorf("failed to save draw %d: %w", draw.DrawNo, err)
	}

	if err := s.eventPublisher.Publish(events.DrawRecordedEvent{
		DrawNo:           draw.DrawNo,
		WinningNumbers:   draw.SortedWinningNumbers(),
		AdditionalNumber: draw.AdditionalNumber,
	}); err != nil {
		log.WithError(err).WithField("drawNo", draw.DrawNo).Error("Failed to publish draw recorded event")
	}

	if s.metrics != nil {
		s.metrics.RecordDrawRecorded()
	}

	log.WithField("drawNo", draw.DrawNo).Info("Recorded draw")
	return nil
}

// Latest returns the newest draws
func (s *drawService) Latest(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error) {
	draws, err := s.drawRepo.GetLatest(ctx, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draws: %w", err)
	}
	return draws, nil
}

// Page returns one page of draws; page numbers below 1 are treated as 1
func (s *drawService) Page(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error) {
	draws, total, err := s.drawRepo.GetPage(ctx, max(page, 1), ClampLimit(limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get draw page: %w", err)
	}
	return draws, total, nil
}
