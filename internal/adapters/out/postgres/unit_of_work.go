// Package postgres provides the GORM implementation of the Unit of Work
// pattern for the load board, the schema migration and the connection setup.
//
// A unit of work owns one database transaction. Repositories obtained from it
// after Begin run inside that transaction and report every aggregate they
// write back to the unit of work. Once Commit succeeds the lifecycle events
// recorded by those aggregates are handed to the configured EventPublisher.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	l, err := uow.LoadRepository().GetForUpdate(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if err := l.Assign(driverID); err != nil {
//	    return err
//	}
//	if err := uow.LoadRepository().Update(ctx, l); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance holds its own transaction, never share one
//     between goroutines
//   - Guarded load transitions read the row with GetForUpdate, so competing
//     transactions on the same load queue behind the first one
package postgres

import (
	"context"
	"log/slog"

	"loadboard/internal/adapters/out/postgres/loadrepo"
	"loadboard/internal/adapters/out/postgres/requestrepo"
	"loadboard/internal/adapters/out/postgres/userrepo"
	"loadboard/internal/core/domain/model/kernel"
	"loadboard/internal/core/domain/model/load"
	"loadboard/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.ID
	Aggregate any
}

// eventSource is implemented by aggregates that record lifecycle events.
type eventSource interface {
	DomainEvents() []load.Event
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Each business operation gets a fresh unit of work.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// publisher may be nil, in which case recorded events are dropped after commit.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger,
	}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates
// written inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	uow.tx = tx

	return nil
}

// Commit finalizes the transaction and publishes the events recorded by the
// tracked aggregates. A publishing failure is logged and does not undo the
// commit.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.forget()
		return err
	}

	events := uow.collectEvents()
	uow.trackedAggregates = uow.trackedAggregates[:0]
	if len(events) == 0 || uow.publisher == nil {
		return nil
	}

	if err := uow.publisher.Publish(ctx, events...); err != nil {
		uow.logger.WarnContext(ctx, "failed to publish load events",
			slog.Int("count", len(events)),
			slog.Any("error", err))
	}

	return nil
}

// Rollback discards the transaction and every event recorded since Begin.
// Returns gorm.ErrInvalidTransaction when nothing is active, which makes it
// safe to defer after a successful Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.forget()
	return err
}

func (uow *GormUnitOfWork) LoadRepository() ports.LoadRepository {
	return loadrepo.NewGormLoadRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) LoadRequestRepository() ports.LoadRequestRepository {
	return requestrepo.NewGormLoadRequestRepository(uow.conn())
}

func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	return userrepo.NewGormUserRepository(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after a successful Add or Update.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.ID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the transaction when one is active, the plain connection otherwise.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) collectEvents() []load.Event {
	var events []load.Event
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		events = append(events, source.DomainEvents()...)
		source.ClearDomainEvents()
	}
	return events
}

func (uow *GormUnitOfWork) forget() {
	for _, tracked := range uow.trackedAggregates {
		if source, ok := tracked.Aggregate.(eventSource); ok {
			source.ClearDomainEvents()
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
}
