package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates.
type OrderRepository interface {
	// Add inserts a new order with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order back. The write only succeeds when the stored version
	// still matches aggregate.Version(); otherwise an errs.ConflictError is returned.
	// On success the aggregate's version is advanced.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns the order or an errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate is Get with a row lock held until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAwaitingDriver returns up to limit ready orders with no driver, oldest first.
	GetAwaitingDriver(ctx context.Context, limit int) ([]*order.Order, error)
}
