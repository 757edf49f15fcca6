package entities

import (
	"fmt"
	"time"
)

// AccuracyRecord links a prediction to the draw it was later compared with
type AccuracyRecord struct {
	ID              int64     `db:"id" json:"-"`
	PredictionID    string    `db:"prediction_id" json:"prediction_id"`
	DrawNo          int64     `db:"draw_no" json:"draw_number"`
	MatchCount      int       `db:"match_count" json:"match_count"`
	AdditionalMatch bool      `db:"additional_match" json:"additional_match"`
	EvaluatedAt     time.Time `db:"evaluated_at" json:"evaluated_at"`
}

// Label renders the record as "Hit N", "Hit N + Add" or "No Match"
func (r *AccuracyRecord) Label() string {
	if r.AdditionalMatch {
		return fmt.Sprintf("Hit %d + Add", r.MatchCount)
	}
	if r.MatchCount == 0 {
		return "No Match"
	}
	return fmt.Sprintf("Hit %d", r.MatchCount)
}

// HitRate summarizes how many records reached a match threshold
type HitRate struct {
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}
