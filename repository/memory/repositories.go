package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"totopredict/domain/entities"
)

type drawRepository struct {
	s *state
}

func (r *drawRepository) Save(ctx context.Context, draw *entities.HistoricalDraw) error {
	if existing, ok := r.s.draws[draw.DrawNo]; ok {
		draw.CreatedAt = existing.CreatedAt
	} else if draw.CreatedAt.IsZero() {
		draw.CreatedAt = time.Now().UTC()
	}
	r.s.draws[draw.DrawNo] = copyDraw(draw)
	return nil
}

func (r *drawRepository) GetByDrawNo(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error) {
	draw, ok := r.s.draws[drawNo]
	if !ok {
		return nil, nil
	}
	return copyDraw(draw), nil
}

func (r *drawRepository) GetLatest(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error) {
	sorted := r.sortedDesc()
	return sorted[:min(max(limit, 0), len(sorted))], nil
}

func (r *drawRepository) GetPage(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error) {
	sorted := r.sortedDesc()
	start := min(max(page-1, 0)*max(limit, 0), len(sorted))
	end := min(start+max(limit, 0), len(sorted))
	return sorted[start:end], len(sorted), nil
}

func (r *drawRepository) GetNextAfter(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error) {
	var next *entities.HistoricalDraw
	for no, draw := range r.s.draws {
		if no > drawNo && (next == nil || no < next.DrawNo) {
			next = draw
		}
	}
	if next == nil {
		return nil, nil
	}
	return copyDraw(next), nil
}

// sortedDesc returns copies of every draw, newest draw number first
func (r *drawRepository) sortedDesc() []*entities.HistoricalDraw {
	draws := make([]*entities.HistoricalDraw, 0, len(r.s.draws))
	for _, d := range r.s.draws {
		draws = append(draws, copyDraw(d))
	}
	slices.SortFunc(draws, func(a, b *entities.HistoricalDraw) int {
		return cmp.Compare(b.DrawNo, a.DrawNo)
	})
	return draws
}

type predictionRepository struct {
	s *state
}

func (r *predictionRepository) Save(ctx context.Context, prediction *entities.Prediction) error {
	if _, exists := r.s.predictions[prediction.ID]; exists {
		return fmt.Errorf("prediction %s already exists", prediction.ID)
	}
	r.s.predictions[prediction.ID] = copyPrediction(prediction)
	return nil
}

func (r *predictionRepository) GetByID(ctx context.Context, id string) (*entities.Prediction, error) {
	prediction, ok := r.s.predictions[id]
	if !ok {
		return nil, nil
	}
	return copyPrediction(prediction), nil
}

func (r *predictionRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	predictions := r.sorted(func(p *entities.Prediction) bool { return true })
	slices.Reverse(predictions)
	return predictions[:min(max(limit, 0), len(predictions))], nil
}

func (r *predictionRepository) GetUnevaluated(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	predictions := r.sorted(func(p *entities.Prediction) bool {
		_, evaluated := r.s.accuracy[p.ID]
		return !evaluated
	})
	return predictions[:min(max(limit, 0), len(predictions))], nil
}

// sorted returns copies of matching predictions, oldest first
func (r *predictionRepository) sorted(keep func(*entities.Prediction) bool) []*entities.Prediction {
	var predictions []*entities.Prediction
	for _, p := range r.s.predictions {
		if keep(p) {
			predictions = append(predictions, copyPrediction(p))
		}
	}
	slices.SortFunc(predictions, func(a, b *entities.Prediction) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return predictions
}

type accuracyRepository struct {
	s *state
}

func (r *accuracyRepository) Save(ctx context.Context, record *entities.AccuracyRecord) error {
	if _, exists := r.s.accuracy[record.PredictionID]; exists {
		return fmt.Errorf("prediction %s already has an accuracy record", record.PredictionID)
	}
	record.ID = r.s.nextID
	r.s.nextID++
	r.s.accuracy[record.PredictionID] = copyRecord(record)
	return nil
}

func (r *accuracyRepository) GetByPrediction(ctx context.Context, predictionID string) (*entities.AccuracyRecord, error) {
	record, ok := r.s.accuracy[predictionID]
	if !ok {
		return nil, nil
	}
	return copyRecord(record), nil
}

func (r *accuracyRepository) GetAll(ctx context.Context, limit int) ([]*entities.AccuracyRecord, error) {
	records := make([]*entities.AccuracyRecord, 0, len(r.s.accuracy))
	for _, rec := range r.s.accuracy {
		records = append(records, copyRecord(rec))
	}
	slices.SortFunc(records, func(a, b *entities.AccuracyRecord) int {
		return cmp.Or(b.EvaluatedAt.Compare(a.EvaluatedAt), cmp.Compare(b.ID, a.ID))
	})
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}
