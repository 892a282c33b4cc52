// Package events delivers committed domain events to in-process consumers and
// serialises them for external ones.
package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
)

// Multicaster is the ports.EventPublisher that hands every event to every handler,
// in registration order. A failing handler does not stop the others.
type Multicaster struct {
	handlers []ports.EventHandler
	logger   *slog.Logger
}

var _ ports.EventPublisher = (*Multicaster)(nil)

func NewMulticaster(logger *slog.Logger, handlers ...ports.EventHandler) *Multicaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Multicaster{
		handlers: handlers,
		logger:   logger.With("component", "event_multicaster"),
	}
}

// Subscribe adds a handler. It must not be called concurrently with Publish.
func (m *Multicaster) Subscribe(handler ports.EventHandler) {
	m.handlers = append(m.handlers, handler)
}

// Publish returns the joined handler errors, each tagged with the event name.
func (m *Multicaster) Publish(ctx context.Context, events ...kernel.DomainEvent) error {
	var errList []error

	for _, event := range events {
		for _, handler := range m.handlers {
			if err := handler.Handle(ctx, event); err != nil {
				m.logger.ErrorContext(ctx, "event handler failed",
					slog.String("event", event.EventName()),
					slog.String("aggregate_id", event.AggregateID().String()),
					slog.String("handler", fmt.Sprintf("%T", handler)),
					slog.String("error", err.Error()))
				errList = append(errList, fmt.Errorf("%s: %w", event.EventName(), err))
			}
		}
	}

	return errors.Join(errList...)
}

// HandlerFunc adapts a function to ports.EventHandler.
type HandlerFunc func(ctx context.Context, event kernel.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event kernel.DomainEvent) error {
	return f(ctx, event)
}
