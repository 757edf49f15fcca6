package repository

import (
	"context"
	"errors"
	"fmt"

	"totopredict/domain/entities"

	"github.com/jackc/pgx/v5"
)

const predictionColumns = `p.id, p.numbers, p.sum, p.odd_count, p.even_count, p.low_count, p.high_count,
	p.confidence_score, p.iterations, p.accepted_count, p.used_fallback, p.based_on_draw_no, p.created_at`

// PredictionRepository implements prediction data access
type PredictionRepository struct {
	q Queryable
}

// NewPredictionRepository creates a new prediction repository
func NewPredictionRepository(q Queryable) *PredictionRepository {
	return &PredictionRepository{q: q}
}

// Save stores a new prediction
func (r *PredictionRepository) Save(ctx context.Context, prediction *entities.Prediction) error {
	query := `
		INSERT INTO predictions (
			id, numbers, sum, odd_count, even_count, low_count, high_count,
			confidence_score, iterations, accepted_count, used_fallback, based_on_draw_no, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.Exec(ctx, query,
		prediction.ID,
		prediction.Numbers,
		prediction.Stats.Sum,
		prediction.Stats.OddCount,
		prediction.Stats.EvenCount,
		prediction.Stats.LowCount,
		prediction.Stats.HighCount,
		prediction.ConfidenceScore,
		prediction.Iterations,
		prediction.AcceptedCount,
		prediction.UsedFallback,
		prediction.BasedOnDrawNo,
		prediction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction %s: %w", prediction.ID, err)
	}

	return nil
}

// GetByID retrieves a prediction by its ID
func (r *PredictionRepository) GetByID(ctx context.Context, id string) (*entities.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions p WHERE p.id = $1`

	prediction, err := scanPrediction(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction %s: %w", id, err)
	}

	return prediction, nil
}

// GetRecent returns the newest predictions
func (r *PredictionRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	query := `SELECT ` + predictionColumns + ` FROM predictions p ORDER BY p.created_at DESC, p.id LIMIT $1`

	predictions, err := r.queryPredictions(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent predictions: %w", err)
	}
	return predictions, nil
}

// GetUnevaluated returns predictions that have no accuracy record yet, oldest first
func (r *PredictionRepository) GetUnevaluated(ctx context.Context, limit int) ([]*entities.Prediction, error) {
	query := `
		SELECT ` + predictionColumns + `
		FROM predictions p
		LEFT JOIN accuracy_records a ON a.prediction_id = p.id
		WHERE a.id IS NULL
		ORDER BY p.created_at ASC, p.id
		LIMIT $1
	`

	predictions, err := r.queryPredictions(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get unevaluated predictions: %w", err)
	}
	return predictions, nil
}

func (r *PredictionRepository) queryPredictions(ctx context.Context, query string, args ...any) ([]*entities.Prediction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var predictions []*entities.Prediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		predictions = append(predictions, prediction)
	}

	return predictions, rows.Err()
}

func scanPrediction(row scanner) (*entities.Prediction, error) {
	var p entities.Prediction
	err := row.Scan(
		&p.ID,
		&p.Numbers,
		&p.Stats.Sum,
		&p.Stats.OddCount,
		&p.Stats.EvenCount,
		&p.Stats.LowCount,
		&p.Stats.HighCount,
		&p.ConfidenceScore,
		&p.Iterations,
		&p.AcceptedCount,
		&p.UsedFallback,
		&p.BasedOnDrawNo,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
