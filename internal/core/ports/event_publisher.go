package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
)

// EventPublisher forwards committed domain events to their consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}

// EventHandler consumes a single domain event.
type EventHandler interface {
	Handle(ctx context.Context, event kernel.DomainEvent) error
}
