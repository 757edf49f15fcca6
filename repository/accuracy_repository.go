package repository

import (
	"context"
	"errors"
	"fmt"

	"totopredict/domain/entities"

	"github.com/jackc/pgx/v5"
)

const accuracyColumns = `id, prediction_id, draw_no, match_count, additional_match, evaluated_at`

// AccuracyRepository implements accuracy record data access
type AccuracyRepository struct {
	q Queryable
}

// NewAccuracyRepository creates a new accuracy repository
func NewAccuracyRepository(q Queryable) *AccuracyRepository {
	return &AccuracyRepository{q: q}
}

// Save stores a record and sets its ID
func (r *AccuracyRepository) Save(ctx context.Context, record *entities.AccuracyRecord) error {
	query := `
		INSERT INTO accuracy_records (prediction_id, draw_no, match_count, additional_match, evaluated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		record.PredictionID,
		record.DrawNo,
		record.MatchCount,
		record.AdditionalMatch,
		record.EvaluatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to save accuracy record for prediction %s: %w", record.PredictionID, err)
	}

	return nil
}

// GetByPrediction retrieves the record of a prediction
func (r *AccuracyRepository) GetByPrediction(ctx context.Context, predictionID string) (*entities.AccuracyRecord, error) {
	query := `SELECT ` + accuracyColumns + ` FROM accuracy_records WHERE prediction_id = $1`

	record, err := scanAccuracy(r.q.QueryRow(ctx, query, predictionID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get accuracy record for prediction %s: %w", predictionID, err)
	}

	return record, nil
}

// GetAll returns records newest first; a non-positive limit returns all of them
func (r *AccuracyRepository) GetAll(ctx context.Context, limit int) ([]*entities.AccuracyRecord, error) {
	query := `SELECT ` + accuracyColumns + ` FROM accuracy_records ORDER BY evaluated_at DESC, id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get accuracy records: %w", err)
	}
	defer rows.Close()

	var records []*entities.AccuracyRecord
	for rows.Next() {
		record, err := scanAccuracy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan accuracy record: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanAccuracy(row scanner) (*entities.AccuracyRecord, error) {
	var record entities.AccuracyRecord
	err := row.Scan(
		&record.ID,
		&record.PredictionID,
		&record.DrawNo,
		&record.MatchCount,
		&record.AdditionalMatch,
		&record.EvaluatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
