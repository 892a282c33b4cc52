package order

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventDriverAssigned     = "order.driver_assigned"
)

// OrderCreated is recorded once when an order is placed.
type OrderCreated struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	StoreID    kernel.UUID
	Total      kernel.Money
	At         time.Time
}

func (e OrderCreated) EventName() string        { return EventOrderCreated }
func (e OrderCreated) AggregateID() kernel.UUID { return e.OrderID }
func (e OrderCreated) OccurredAt() time.Time    { return e.At }

// OrderStatusChanged is recorded exactly once per successful transition.
type OrderStatusChanged struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	StoreID    kernel.UUID
	DriverID   *kernel.UUID
	OldStatus  Status
	NewStatus  Status
	Actor      Actor
	At         time.Time
}

func (e OrderStatusChanged) EventName() string        { return EventOrderStatusChanged }
func (e OrderStatusChanged) AggregateID() kernel.UUID { return e.OrderID }
func (e OrderStatusChanged) OccurredAt() time.Time    { return e.At }

// DriverAssigned is recorded when dispatch attaches a driver to the order.
type DriverAssigned struct {
	OrderID    kernel.UUID
	DriverID   kernel.UUID
	CustomerID kernel.UUID
	StoreID    kernel.UUID
	At         time.Time
}

func (e DriverAssigned) EventName() string        { return EventDriverAssigned }
func (e DriverAssigned) AggregateID() kernel.UUID { return e.OrderID }
func (e DriverAssigned) OccurredAt() time.Time    { return e.At }
