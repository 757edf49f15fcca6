package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"totopredict/domain/events"

	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// SourceService identifies this service in published envelopes
const SourceService = "totopredict"

// EventEnvelope wraps an event payload with routing metadata
type EventEnvelope struct {
	EventID       string
	EventType     events.EventType
	Timestamp     *timestamppb.Timestamp
	SourceService string
	Payload       *structpb.Struct
}

// NewEventEnvelope builds an envelope around event with a fresh ID
func NewEventEnvelope(event events.Event) (*EventEnvelope, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	payload := &structpb.Struct{}
	if err := payload.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("failed to convert event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     event.Type(),
		Timestamp:     timestamppb.Now(),
		SourceService: SourceService,
		Payload:       payload,
	}, nil
}

// Marshal encodes the envelope as a protobuf Struct
func (e *EventEnvelope) Marshal() ([]byte, error) {
	msg := &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"event_id":       structpb.NewStringValue(e.EventID),
			"event_type":     structpb.NewStringValue(string(e.EventType)),
			"timestamp":      structpb.NewStringValue(e.Timestamp.AsTime().Format(time.RFC3339Nano)),
			"source_service": structpb.NewStringValue(e.SourceService),
			"payload":        structpb.NewStructValue(e.Payload),
		},
	}

	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// UnmarshalEventEnvelope decodes an envelope produced by Marshal
func UnmarshalEventEnvelope(data []byte) (*EventEnvelope, error) {
	msg := &structpb.Struct{}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	fields := msg.GetFields()
	timestamp, err := time.Parse(time.RFC3339Nano, fields["timestamp"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("invalid envelope timestamp: %w", err)
	}

	return &EventEnvelope{
		EventID:       fields["event_id"].GetStringValue(),
		EventType:     events.EventType(fields["event_type"].GetStringValue()),
		Timestamp:     timestamppb.New(timestamp),
		SourceService: fields["source_service"].GetStringValue(),
		Payload:       fields["payload"].GetStructValue(),
	}, nil
}

// DecodePayload unmarshals the payload into target
func (e *EventEnvelope) DecodePayload(target any) error {
	data, err := e.Payload.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode envelope payload: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to decode envelope payload: %w", err)
	}
	return nil
}
