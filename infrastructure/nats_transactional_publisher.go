package infrastructure

import (
	"context"

	"totopredict/domain/events"
	"totopredict/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// LocalHandler reacts to an event inside the publishing process
type LocalHandler = func(ctx context.Context, event events.Event) error

// NATSTransactionalPublisher holds events until flush, then runs local
// handlers and forwards each event to the real publisher
type NATSTransactionalPublisher struct {
	realPublisher interfaces.EventPublisher
	pending       []events.Event
	localHandlers map[events.EventType][]LocalHandler
}

// NewNATSTransactionalPublisher creates a new transactional publisher
func NewNATSTransactionalPublisher(realPublisher interfaces.EventPublisher) *NATSTransactionalPublisher {
	return &NATSTransactionalPublisher{
		realPublisher: realPublisher,
		pending:       make([]events.Event, 0),
		localHandlers: make(map[events.EventType][]LocalHandler),
	}
}

// RegisterLocalHandler registers a handler invoked on flush for events of eventType
func (p *NATSTransactionalPublisher) RegisterLocalHandler(eventType events.EventType, handler LocalHandler) {
	p.localHandlers[eventType] = append(p.localHandlers[eventType], handler)
}

// Publish stores an event in the pending queue without immediately publishing
func (p *NATSTransactionalPublisher) Publish(event events.Event) error {
	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"pendingCount": len(p.pending),
	}).Debug("Adding event to transactional publisher pending queue")

	p.pending = append(p.pending, event)
	return nil
}

// Flush publishes all pending events
// This should be called after successful database transaction commit
func (p *NATSTransactionalPublisher) Flush(ctx context.Context) error {
	log.WithField("pendingEventCount", len(p.pending)).Debug("Flushing pending events")

	for _, event := range p.pending {
		for _, handler := range p.localHandlers[event.Type()] {
			if err := handler(ctx, event); err != nil {
				// Local handler errors shouldn't stop other handlers or publishing
				log.WithFields(log.Fields{
					"eventType": event.Type(),
					"error":     err,
				}).Error("Local event handler failed")
			}
		}

		if err := p.realPublisher.Publish(event); err != nil {
			// Partial failure doesn't block the remaining events
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event during flush")
		}
	}

	p.pending = p.pending[:0]
	return nil
}

// Discard clears all pending events without publishing them
// This should be called on database transaction rollback
func (p *NATSTransactionalPublisher) Discard() {
	log.WithField("discardedEventCount", len(p.pending)).Debug("Discarding pending events")

	p.pending = p.pending[:0]
}
