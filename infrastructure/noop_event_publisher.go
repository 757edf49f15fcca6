package infrastructure

import (
	"totopredict/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher is an event publisher that drops every event
// Used when no NATS servers are configured
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Event publishing disabled, dropping event")
	return nil
}
