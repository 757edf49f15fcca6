package events

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePredictionCreated EventType = "prediction_created"
	EventTypeAccuracyRecorded  EventType = "accuracy_recorded"
	EventTypeDrawRecorded      EventType = "draw_recorded"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PredictionCreatedEvent is published after a prediction is stored
type PredictionCreatedEvent struct {
	PredictionID    string  `json:"prediction_id"`
	Numbers         []int   `json:"numbers"`
	ConfidenceScore float64 `json:"confidence_score"`
	UsedFallback    bool    `json:"used_fallback"`
	BasedOnDrawNo   int64   `json:"based_on_draw_no"`
}

func (e PredictionCreatedEvent) Type() EventType {
	return EventTypePredictionCreated
}

// AccuracyRecordedEvent is published when a prediction has been compared with a draw
type AccuracyRecordedEvent struct {
	PredictionID    string `json:"prediction_id"`
	DrawNo          int64  `json:"draw_no"`
	MatchCount      int    `json:"match_count"`
	AdditionalMatch bool   `json:"additional_match"`
	Label           string `json:"label"`
}

func (e AccuracyRecordedEvent) Type() EventType {
	return EventTypeAccuracyRecorded
}

// DrawRecordedEvent is published when a new official result is stored
type DrawRecordedEvent struct {
	DrawNo           int64 `json:"draw_no"`
	WinningNumbers   []int `json:"winning_numbers"`
	AdditionalNumber int   `json:"additional_number"`
}

func (e DrawRecordedEvent) Type() EventType {
	return EventTypeDrawRecorded
}
