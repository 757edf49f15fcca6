package services

import (
	"context"
	"fmt"
	"time"

	"totopredict/domain/entities"
	"totopredict/domain/events"
	"totopredict/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// hitThresholds are the buckets reported by HitRates. The top bucket requires an exact match.
var hitThresholds = []struct {
	label    string
	minMatch int
}{
	{"Hit 3+", 3},
	{"Hit 4+", 4},
	{"Hit 5+", 5},
	{"Hit 6", entities.WinningNumbersPerDraw},
}

// accuracyService scores stored predictions against the draws that followed them
type accuracyService struct {
	drawRepo       interfaces.DrawRepository
	predictionRepo interfaces.PredictionRepository
	accuracyRepo   interfaces.AccuracyRepository
	eventPublisher interfaces.EventPublisher
	metrics        interfaces.MetricsRecorder
	now            func() time.Time
}

// NewAccuracyService creates a new accuracy service. metrics may be nil.
func NewAccuracyService(
	drawRepo interfaces.DrawRepository,
	predictionRepo interfaces.PredictionRepository,
	accuracyRepo interfaces.AccuracyRepository,
	eventPublisher interfaces.EventPublisher,
	metrics interfaces.MetricsRecorder,
) interfaces.AccuracyService {
	return &accuracyService{
		drawRepo:       drawRepo,
		predictionRepo: predictionRepo,
		accuracyRepo:   accuracyRepo,
		eventPublisher: eventPublisher,
		metrics:        metrics,
		now:            time.Now,
	}
}

// Compare counts how many winning numbers the prediction contains
func (s *accuracyService) Compare(prediction *entities.Prediction, draw *entities.HistoricalDraw) *entities.AccuracyRecord {
	matches := 0
	for _, n := range draw.WinningNumbers {
		if prediction.Contains(n) {
			matches++
		}
	}

	return &entities.AccuracyRecord{
		PredictionID:    prediction.ID,
		DrawNo:          draw.DrawNo,
		MatchCount:      matches,
		AdditionalMatch: prediction.Contains(draw.AdditionalNumber),
		EvaluatedAt:     s.now().UTC(),
	}
}

// EvaluatePending compares each unevaluated prediction with the first draw
// published after the draw it was based on. Predictions whose next draw is
// not known yet are left for a later run.
func (s *accuracyService) EvaluatePending(ctx context.Context, limit int) ([]*entities.AccuracyRecord, error) {
	pending, err := s.predictionRepo.GetUnevaluated(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unevaluated predictions: %w", err)
	}

	var records []*entities.AccuracyRecord
	for _, prediction := range pending {
		draw, err := s.drawRepo.GetNextAfter(ctx, prediction.BasedOnDrawNo)
		if err != nil {
			return records, fmt.Errorf("failed to get draw after %d: %w", prediction.BasedOnDrawNo, err)
		}
		if draw == nil {
			continue
		}

		record := s.Compare(prediction, draw)
		if err := s.accuracyRepo.Save(ctx, record); err != nil {
			return records, fmt.Errorf("failed to save accuracy for prediction %s: %w", prediction.ID, err)
		}
		records = append(records, record)

		if err := s.eventPublisher.Publish(events.AccuracyRecordedEvent{
			PredictionID:    record.PredictionID,
			DrawNo:          record.DrawNo,
			MatchCount:      record.MatchCount,
			AdditionalMatch: record.AdditionalMatch,
			Label:           record.Label(),
		}); err != nil {
			log.WithError(err).WithField("predictionID", prediction.ID).Error("Failed to publish accuracy recorded event")
		}

		if s.metrics != nil {
			s.metrics.RecordAccuracy(record.MatchCount, record.AdditionalMatch)
		}

		log.WithFields(log.Fields{
			"predictionID": record.PredictionID,
			"drawNo":       record.DrawNo,
			"label":        record.Label(),
		}).Info("Evaluated prediction")
	}

	return records, nil
}

// HitRates reports, for each bucket, how many records reached it and the share of all records
func (s *accuracyService) HitRates(ctx context.Context) ([]entities.HitRate, error) {
	records, err := s.accuracyRepo.GetAll(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get accuracy records: %w", err)
	}

	rates := make([]entities.HitRate, 0, len(hitThresholds))
	for _, bucket := range hitThresholds {
		count := 0
		for _, r := range records {
			if r.MatchCount >= bucket.minMatch {
				count++
			}
		}
		rates = append(rates, entities.HitRate{
			Label:      bucket.label,
			Count:      count,
			Percentage: formatPercentage(count, len(records)),
		})
	}

	return rates, nil
}

func formatPercentage(count, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(count)/float64(total)*100)
}
