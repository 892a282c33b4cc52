package commands

import (
	"context"
	"log/slog"

	"orderhub/internal/core/ports"
)

// publishCommitted forwards the events of a committed unit of work. The state
// change is already durable, so a publishing failure is logged, not returned.
func publishCommitted(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, src EventSource) {
	events := src.PullDomainEvents()
	if len(events) == 0 || publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, events...); err != nil {
		logger.ErrorContext(ctx, "failed to publish domain events",
			slog.Int("count", len(events)),
			slog.String("error", err.Error()))
	}
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
