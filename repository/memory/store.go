// Package memory provides a volatile store implementing the repository
// interfaces. A unit of work holds the store exclusively from Begin until
// Commit or Rollback and works on a private copy that replaces the shared
// state on commit.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"totopredict/application"
	"totopredict/domain/entities"
	"totopredict/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// state is the full data set. Stored entities are never mutated in place, so
// cloning the maps is enough to isolate a unit of work.
type state struct {
	draws       map[int64]*entities.HistoricalDraw
	predictions map[string]*entities.Prediction
	accuracy    map[string]*entities.AccuracyRecord // Keyed by prediction ID
	nextID      int64
}

func newState() *state {
	return &state{
		draws:       make(map[int64]*entities.HistoricalDraw),
		predictions: make(map[string]*entities.Prediction),
		accuracy:    make(map[string]*entities.AccuracyRecord),
		nextID:      1,
	}
}

func (s *state) clone() *state {
	return &state{
		draws:       maps.Clone(s.draws),
		predictions: maps.Clone(s.predictions),
		accuracy:    maps.Clone(s.accuracy),
		nextID:      s.nextID,
	}
}

// Store is an in-process data store. Data is lost when the process exits.
type Store struct {
	sem   chan struct{}
	state *state
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		sem:   make(chan struct{}, 1),
		state: newState(),
	}
}

// CreateWithPublisher creates a new UnitOfWork that flushes transactionalPublisher on commit
func (s *Store) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		store:                  s,
		transactionalPublisher: transactionalPublisher,
	}
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.sem
}

// unitOfWork implements application.UnitOfWork over the store
type unitOfWork struct {
	store                  *Store
	ctx                    context.Context
	working                *state
	transactionalPublisher interfaces.TransactionalEventPublisher
}

// Begin waits for exclusive access to the store
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.working != nil {
		return fmt.Errorf("transaction already started")
	}
	if err := u.store.acquire(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.ctx = ctx
	u.working = u.store.state.clone()
	return nil
}

// Commit publishes the working copy and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.working == nil {
		return fmt.Errorf("no transaction to commit")
	}

	u.store.state = u.working
	u.working = nil
	u.store.release()

	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			log.WithError(err).Error("Failed to flush events after commit")
		}
	}
	return nil
}

// Rollback drops the working copy and pending events
func (u *unitOfWork) Rollback() error {
	if u.working == nil {
		return nil // Nothing to rollback
	}

	u.working = nil
	u.store.release()

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}
	return nil
}

func (u *unitOfWork) mustState() *state {
	if u.working == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.working
}

// DrawRepository returns the draw repository for this unit of work
func (u *unitOfWork) DrawRepository() interfaces.DrawRepository {
	return &drawRepository{s: u.mustState()}
}

// PredictionRepository returns the prediction repository for this unit of work
func (u *unitOfWork) PredictionRepository() interfaces.PredictionRepository {
	return &predictionRepository{s: u.mustState()}
}

// AccuracyRepository returns the accuracy repository for this unit of work
func (u *unitOfWork) AccuracyRepository() interfaces.AccuracyRepository {
	return &accuracyRepository{s: u.mustState()}
}

// EventBus returns the transactional event publisher for this unit of work
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	if u.transactionalPublisher == nil {
		panic("unit of work has no event publisher")
	}
	return u.transactionalPublisher
}

func copyDraw(d *entities.HistoricalDraw) *entities.HistoricalDraw {
	c := *d
	c.WinningNumbers = slices.Clone(d.WinningNumbers)
	return &c
}

func copyPrediction(p *entities.Prediction) *entities.Prediction {
	c := *p
	c.Numbers = slices.Clone(p.Numbers)
	return &c
}

func copyRecord(r *entities.AccuracyRecord) *entities.AccuracyRecord {
	c := *r
	return &c
}
