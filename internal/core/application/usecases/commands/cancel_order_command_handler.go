package commands

import (
	"context"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order under the cancellation policy and
// releases its driver, if any.
type CancelOrderCommandHandler struct {
	changer orderStatusChanger
}

func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		changer: orderStatusChanger{
			uowFactory: uowFactory,
			publisher:  publisher,
			logger:     loggerOrDefault(logger),
		},
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.changer.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		return o.Cancel(cmd.Actor(), now)
	})
}
