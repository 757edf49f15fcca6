package application

import (
	"context"

	"totopredict/domain/events"

	log "github.com/sirupsen/logrus"
)

// LocalEventRegistrar accepts handlers invoked in-process after a unit of work commits
type LocalEventRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(ctx context.Context, event events.Event) error)
}

// RegisterApplicationSubscriptions registers all application-level event handlers
func RegisterApplicationSubscriptions(registrar LocalEventRegistrar, worker *AccuracyWorker) {
	// A new draw may complete pending predictions, score them without waiting for the next tick
	registrar.RegisterLocalHandler(events.EventTypeDrawRecorded,
		func(ctx context.Context, event events.Event) error {
			drawEvent, err := AssertEventType[events.DrawRecordedEvent](event, "DrawRecordedEvent")
			if err != nil {
				return err
			}

			log.WithField("drawNo", drawEvent.DrawNo).Debug("Draw recorded, triggering accuracy evaluation")
			worker.Trigger()
			return nil
		})
}
