package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate during a state change. Events are
// collected by the unit of work and published only after the transaction commits.
type DomainEvent interface {
	// EventName is a stable dotted identifier such as "order.status_changed".
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}
