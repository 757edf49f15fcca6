package infrastructure

import (
	"sync"

	"totopredict/application"
	"totopredict/domain/events"
	"totopredict/domain/interfaces"
)

// RepositoryFactory creates units of work bound to a transactional publisher.
// Implemented by the Postgres and in-memory stores.
type RepositoryFactory interface {
	CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork
}

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface
// It creates UnitOfWork instances that handle both storage transactions and event publishing
type UnitOfWorkFactory struct {
	repoFactory    RepositoryFactory
	eventPublisher interfaces.EventPublisher

	mu            sync.RWMutex
	localHandlers map[events.EventType][]LocalHandler
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(repoFactory RepositoryFactory, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		repoFactory:    repoFactory,
		eventPublisher: eventPublisher,
		localHandlers:  make(map[events.EventType][]LocalHandler),
	}
}

// RegisterLocalHandler registers a handler invoked after commit for events of eventType
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler LocalHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.localHandlers[eventType] = append(f.localHandlers[eventType], handler)
}

// Create creates a new UnitOfWork with its own transactional event publisher
func (f *UnitOfWorkFactory) Create() application.UnitOfWork {
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)

	f.mu.RLock()
	for eventType, handlers := range f.localHandlers {
		for _, handler := range handlers {
			transactionalPublisher.RegisterLocalHandler(eventType, handler)
		}
	}
	f.mu.RUnlock()

	return f.repoFactory.CreateWithPublisher(transactionalPublisher)
}
