package commands

import (
	"context"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// UpdateOrderStatusCommandHandler moves an order along its lifecycle.
//
// A transition into ready triggers driver assignment once the transition is
// committed. Delivered and cancelled orders free their driver in the same
// transaction.
//
// Example:
//
//	cmd, _ := NewUpdateOrderStatusCommand(orderID, order.Ready, actor)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // 422
//	case errors.Is(err, errs.ErrConflict):
//	    // 409, reload and retry
//	}
type UpdateOrderStatusCommandHandler struct {
	changer orderStatusChanger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	assigner DriverAssigner,
	logger *slog.Logger,
) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		changer: orderStatusChanger{
			uowFactory: uowFactory,
			publisher:  publisher,
			assigner:   assigner,
			logger:     loggerOrDefault(logger),
		},
	}
}

// Handle applies the transition and returns the updated order.
func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.changer.apply(ctx, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		if cmd.Target() == order.Cancelled {
			return o.Cancel(cmd.Actor(), now)
		}
		return o.Transition(cmd.Target(), cmd.Actor(), now)
	})
}
