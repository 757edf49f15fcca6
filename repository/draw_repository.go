package repository

import (
	"context"
	"errors"
	"fmt"

	"totopredict/domain/entities"

	"github.com/jackc/pgx/v5"
)

const drawColumns = `draw_no, draw_date, winning_numbers, additional_number, prize_amount, created_at`

// DrawRepository implements historical draw data access
type DrawRepository struct {
	q Queryable
}

// NewDrawRepository creates a new draw repository
func NewDrawRepository(q Queryable) *DrawRepository {
	return &DrawRepository{q: q}
}

// Save inserts a draw or replaces the stored draw with the same number
func (r *DrawRepository) Save(ctx context.Context, draw *entities.HistoricalDraw) error {
	query := `
		INSERT INTO draws (draw_no, draw_date, winning_numbers, additional_number, prize_amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (draw_no) DO UPDATE
		SET draw_date = EXCLUDED.draw_date,
		    winning_numbers = EXCLUDED.winning_numbers,
		    additional_number = EXCLUDED.additional_number,
		    prize_amount = EXCLUDED.prize_amount
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		draw.DrawNo,
		draw.DrawDate,
		draw.WinningNumbers,
		draw.AdditionalNumber,
		draw.PrizeAmount,
	).Scan(&draw.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save draw %d: %w", draw.DrawNo, err)
	}

	return nil
}

// GetByDrawNo retrieves a draw by its number
func (r *DrawRepository) GetByDrawNo(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE draw_no = $1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, drawNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw %d: %w", drawNo, err)
	}

	return draw, nil
}

// GetLatest returns the most recent draws, newest first
func (r *DrawRepository) GetLatest(ctx context.Context, limit int) ([]*entities.HistoricalDraw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY draw_no DESC LIMIT $1`

	draws, err := r.queryDraws(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest draws: %w", err)
	}
	return draws, nil
}

// GetPage returns one page of draws, newest first, along with the total count
func (r *DrawRepository) GetPage(ctx context.Context, page, limit int) ([]*entities.HistoricalDraw, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM draws`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count draws: %w", err)
	}

	query := `SELECT ` + drawColumns + ` FROM draws ORDER BY draw_no DESC LIMIT $1 OFFSET $2`
	draws, err := r.queryDraws(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get draw page %d: %w", page, err)
	}

	return draws, total, nil
}

// GetNextAfter returns the earliest draw numbered above drawNo
func (r *DrawRepository) GetNextAfter(ctx context.Context, drawNo int64) (*entities.HistoricalDraw, error) {
	query := `SELECT ` + drawColumns + ` FROM draws WHERE draw_no > $1 ORDER BY draw_no ASC LIMIT 1`

	draw, err := scanDraw(r.q.QueryRow(ctx, query, drawNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draw after %d: %w", drawNo, err)
	}

	return draw, nil
}

func (r *DrawRepository) queryDraws(ctx context.Context, query string, args ...any) ([]*entities.HistoricalDraw, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var draws []*entities.HistoricalDraw
	for rows.Next() {
		draw, err := scanDraw(rows)
		if err != nil {
			return nil, err
		}
		draws = append(draws, draw)
	}

	return draws, rows.Err()
}

func scanDraw(row scanner) (*entities.HistoricalDraw, error) {
	var draw entities.HistoricalDraw
	err := row.Scan(
		&draw.DrawNo,
		&draw.DrawDate,
		&draw.WinningNumbers,
		&draw.AdditionalNumber,
		&draw.PrizeAmount,
		&draw.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &draw, nil
}
