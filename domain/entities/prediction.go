package entities

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// PredictionStats holds descriptive statistics of a combination
type PredictionStats struct {
	Sum       int `json:"sum"`
	OddCount  int `json:"odd_count"`
	EvenCount int `json:"even_count"`
	LowCount  int `json:"low_count"`
	HighCount int `json:"high_count"`
}

// OddEvenRatio formats the parity split as "odd:even"
func (s PredictionStats) OddEvenRatio() string {
	return fmt.Sprintf("%d:%d", s.OddCount, s.EvenCount)
}

// HighLowRatio formats the range split as "low:high"
func (s PredictionStats) HighLowRatio() string {
	return fmt.Sprintf("%d:%d", s.LowCount, s.HighCount)
}

// MarshalJSON includes the formatted ratios alongside the raw counts
func (s PredictionStats) MarshalJSON() ([]byte, error) {
	type plain PredictionStats
	return json.Marshal(struct {
		plain
		OddEvenRatio string `json:"odd_even_ratio"`
		HighLowRatio string `json:"high_low_ratio"`
	}{
		plain:        plain(s),
		OddEvenRatio: s.OddEvenRatio(),
		HighLowRatio: s.HighLowRatio(),
	})
}

// Prediction is an accepted combination produced by one engine run
type Prediction struct {
	ID              string          `db:"id" json:"id"`
	Numbers         []int           `db:"numbers" json:"numbers"`
	Stats           PredictionStats `json:"stats"`
	ConfidenceScore float64         `db:"confidence_score" json:"confidence_score"`
	Iterations      int             `db:"iterations" json:"iterations"`
	AcceptedCount   int             `db:"accepted_count" json:"accepted_count"`
	UsedFallback    bool            `db:"used_fallback" json:"used_fallback"`
	BasedOnDrawNo   int64           `db:"based_on_draw_no" json:"based_on_draw_no"` // Latest draw seen at generation, 0 without history
	CreatedAt       time.Time       `db:"created_at" json:"timestamp"`
}

// Contains returns true if the prediction includes n
func (p *Prediction) Contains(n int) bool {
	return slices.Contains(p.Numbers, n)
}
