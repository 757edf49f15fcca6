package infrastructure

import (
	"fmt"

	"totopredict/domain/events"
)

const (
	SubjectPredictionCreated = "predictions.created"
	SubjectAccuracyRecorded  = "predictions.accuracy_recorded"
	SubjectDrawRecorded      = "draws.recorded"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypePredictionCreated:
		return SubjectPredictionCreated
	case events.EventTypeAccuracyRecorded:
		return SubjectAccuracyRecorded
	case events.EventTypeDrawRecorded:
		return SubjectDrawRecorded
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case SubjectPredictionCreated:
		return events.EventTypePredictionCreated
	case SubjectAccuracyRecorded:
		return events.EventTypeAccuracyRecorded
	case SubjectDrawRecorded:
		return events.EventTypeDrawRecorded
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectPredictionCreated,
		SubjectAccuracyRecorded,
		SubjectDrawRecorded,
	}
}
