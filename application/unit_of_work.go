package application

import (
	"context"

	"totopredict/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters, valid only between Begin and Commit/Rollback
	DrawRepository() interfaces.DrawRepository
	PredictionRepository() interfaces.PredictionRepository
	AccuracyRepository() interfaces.AccuracyRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
