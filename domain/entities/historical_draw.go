package entities

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// WinningNumbersPerDraw is the number of winning numbers in every draw
const WinningNumbersPerDraw = 6

// HistoricalDraw represents one past drawing
type HistoricalDraw struct {
	DrawNo           int64     `db:"draw_no" json:"draw_no"`
	DrawDate         time.Time `db:"draw_date" json:"date"`
	WinningNumbers   []int     `db:"winning_numbers" json:"winning_numbers"`
	AdditionalNumber int       `db:"additional_number" json:"additional_number"`
	PrizeAmount      int64     `db:"prize_amount" json:"prize_amount"` // Minor currency units
	CreatedAt        time.Time `db:"created_at" json:"-"`
}

// Validate checks the draw invariants against the valid number range
func (d *HistoricalDraw) Validate(rangeMin, rangeMax int) error {
	if d.DrawNo <= 0 {
		return fmt.Errorf("draw number must be positive, got %d", d.DrawNo)
	}
	if len(d.WinningNumbers) != WinningNumbersPerDraw {
		return fmt.Errorf("draw %d must have exactly %d winning numbers, got %d",
			d.DrawNo, WinningNumbersPerDraw, len(d.WinningNumbers))
	}

	seen := make(map[int]bool, len(d.WinningNumbers))
	for _, n := range d.WinningNumbers {
		if n < rangeMin || n > rangeMax {
			return fmt.Errorf("draw %d winning number %d outside [%d, %d]", d.DrawNo, n, rangeMin, rangeMax)
		}
		if seen[n] {
			return fmt.Errorf("draw %d has duplicate winning number %d", d.DrawNo, n)
		}
		seen[n] = true
	}

	if d.AdditionalNumber < rangeMin || d.AdditionalNumber > rangeMax {
		return fmt.Errorf("draw %d additional number %d outside [%d, %d]", d.DrawNo, d.AdditionalNumber, rangeMin, rangeMax)
	}
	if seen[d.AdditionalNumber] {
		return fmt.Errorf("draw %d additional number %d duplicates a winning number", d.DrawNo, d.AdditionalNumber)
	}
	if d.PrizeAmount < 0 {
		return errors.New("prize amount cannot be negative")
	}

	return nil
}

// HasWinningNumber returns true if n is one of the winning numbers
func (d *HistoricalDraw) HasWinningNumber(n int) bool {
	return slices.Contains(d.WinningNumbers, n)
}

// SortedWinningNumbers returns an ascending copy of the winning numbers
func (d *HistoricalDraw) SortedWinningNumbers() []int {
	sorted := slices.Clone(d.WinningNumbers)
	slices.Sort(sorted)
	return sorted
}
