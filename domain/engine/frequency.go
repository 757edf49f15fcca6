package engine

import (
	"cmp"
	"fmt"
	"slices"

	"totopredict/domain/entities"
)

// FrequencyTable counts winning-number occurrences for every number in a range
type FrequencyTable struct {
	rangeMin int
	counts   []int
}

// NewFrequencyTable returns an all-zero table covering [rangeMin, rangeMax]
func NewFrequencyTable(rangeMin, rangeMax int) FrequencyTable {
	size := rangeMax - rangeMin + 1
	if size < 0 {
		size = 0
	}
	return FrequencyTable{
		rangeMin: rangeMin,
		counts:   make([]int, size),
	}
}

// Count returns the occurrences of n, zero when n is outside the range
func (t FrequencyTable) Count(n int) int {
	i := n - t.rangeMin
	if i < 0 || i >= len(t.counts) {
		return 0
	}
	return t.counts[i]
}

// Max returns the highest count in the table
func (t FrequencyTable) Max() int {
	if len(t.counts) == 0 {
		return 0
	}
	return slices.Max(t.counts)
}

// Len returns the number of entries, one per number in range
func (t FrequencyTable) Len() int {
	return len(t.counts)
}

// Map returns the table as number -> count
func (t FrequencyTable) Map() map[int]int {
	m := make(map[int]int, len(t.counts))
	for i, c := range t.counts {
		m[t.rangeMin+i] = c
	}
	return m
}

func (t FrequencyTable) increment(n int) {
	i := n - t.rangeMin
	if i >= 0 && i < len(t.counts) {
		t.counts[i]++
	}
}

// Analyze counts winning numbers over the windowSize most recent draws.
// Draws are ordered by draw number descending before the window is taken;
// numbers outside the range are ignored so the table keeps exactly one entry
// per valid number.
func Analyze(draws []*entities.HistoricalDraw, windowSize, rangeMin, rangeMax int) (FrequencyTable, error) {
	if windowSize <= 0 {
		return FrequencyTable{}, fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidInput, windowSize)
	}
	if rangeMax < rangeMin {
		return FrequencyTable{}, fmt.Errorf("%w: range [%d, %d] is empty", ErrInvalidInput, rangeMin, rangeMax)
	}

	ordered := slices.Clone(draws)
	ordered = slices.DeleteFunc(ordered, func(d *entities.HistoricalDraw) bool { return d == nil })
	slices.SortStableFunc(ordered, func(a, b *entities.HistoricalDraw) int {
		return cmp.Compare(b.DrawNo, a.DrawNo)
	})
	if len(ordered) > windowSize {
		ordered = ordered[:windowSize]
	}

	table := NewFrequencyTable(rangeMin, rangeMax)
	for _, draw := range ordered {
		for _, n := range draw.WinningNumbers {
			table.increment(n)
		}
	}

	return table, nil
}
