package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork scopes repositories to one database transaction and collects the
// domain events raised by the aggregates it saved.
type UnitOfWork interface {
	Begin(ctx context.Context) error

	Commit(ctx context.Context) error

	Rollback(ctx context.Context) error

	DriverRepository() DriverRepository

	OrderRepository() OrderRepository

	// PullDomainEvents drains the pending events of every tracked aggregate in the
	// order the aggregates were saved. Call it after Commit.
	PullDomainEvents() []kernel.DomainEvent
}
