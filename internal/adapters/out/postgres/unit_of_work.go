// Package postgres provides the GORM implementation of the unit of work.
//
// A unit of work scopes the order and driver repositories to one database
// transaction and remembers every aggregate they saved, so the caller can drain
// the recorded domain events once the transaction has committed:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
//	if err != nil {
//	    return err
//	}
//	// ... mutate o and the driver ...
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.Commit(ctx); err != nil {
//	    return err
//	}
//
//	publisher.Publish(ctx, uow.PullDomainEvents()...)
//
// Each instance holds its own transaction; goroutines must not share one.
package postgres

import (
	"context"

	"orderhub/internal/adapters/out/postgres/driverrepo"
	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate saved during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that record domain events.
type eventSource interface {
	DomainEvents() []kernel.DomainEvent
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create returns a fresh unit of work with no open transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction across repositories.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin opens the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit makes the changes permanent and closes the transaction.
// Returns gorm.ErrInvalidTransaction when no transaction is open.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
	}
	return err
}

// Rollback discards the changes and forgets the tracked aggregates. After a
// successful Commit it returns gorm.ErrInvalidTransaction and changes nothing,
// which makes it safe to defer.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// DriverRepository returns a driver repository bound to the open transaction, or
// to the pool when none is open.
func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

// OrderRepository returns an order repository bound to the open transaction, or
// to the pool when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// TrackAggregate is called by the repositories after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// PullDomainEvents returns the events recorded by the tracked aggregates in the
// order they were first saved and clears them. An aggregate saved twice
// contributes its events once.
func (uow *GormUnitOfWork) PullDomainEvents() []kernel.DomainEvent {
	var events []kernel.DomainEvent
	seen := make(map[any]struct{}, len(uow.trackedAggregates))

	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		if _, dup := seen[source]; dup {
			continue
		}
		seen[source] = struct{}{}

		events = append(events, source.DomainEvents()...)
		source.ClearDomainEvents()
	}

	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
