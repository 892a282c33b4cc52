package commands

import (
	"context"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// DriverAssigner runs the dispatch coordinator for one order.
type DriverAssigner interface {
	Handle(ctx context.Context, cmd AssignDriverCommand) (*driver.Driver, error)
}

// orderStatusChanger applies one status change to one order inside a transaction.
// When the change ends the order, the assigned driver is released (or credited
// with the delivery) in the same transaction so both rows stay consistent.
type orderStatusChanger struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	assigner   DriverAssigner
	logger     *slog.Logger
}

func (c orderStatusChanger) apply(
	ctx context.Context,
	orderID kernel.UUID,
	change func(o *order.Order, now time.Time) error,
) (*order.Order, error) {
	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	driverRepo := uow.DriverRepository()

	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = change(o, time.Now().UTC()); err != nil {
		return nil, err
	}

	// The driver row must be read before the order row turns terminal, because
	// the driver's active set is derived from non-terminal orders.
	var holder *driver.Driver
	if driverID := o.Driver(); driverID != nil && o.Status().IsTerminal() {
		if holder, err = driverRepo.GetForUpdate(ctx, *driverID); err != nil {
			return nil, err
		}

		if o.Status() == order.Delivered {
			holder.CompleteDelivery(o.ID())
		} else {
			holder.Release(o.ID())
		}
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if holder != nil {
		if err = driverRepo.Update(ctx, holder); err != nil {
			return nil, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	publishCommitted(ctx, c.publisher, c.logger, uow)

	if o.IsAwaitingDriver() {
		c.dispatch(ctx, o.ID())
	}

	return o, nil
}

// dispatch runs after commit. A failure leaves the order ready and unassigned for
// the retry sweep, so it is only logged.
func (c orderStatusChanger) dispatch(ctx context.Context, orderID kernel.UUID) {
	if c.assigner == nil {
		return
	}

	cmd, err := NewAssignDriverCommand(orderID)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to build dispatch command", slog.String("error", err.Error()))
		return
	}

	assigned, err := c.assigner.Handle(ctx, cmd)
	switch {
	case err != nil:
		c.logger.WarnContext(ctx, "driver assignment failed",
			slog.String("order_id", orderID.String()),
			slog.String("error", err.Error()))
	case assigned == nil:
		c.logger.InfoContext(ctx, "no eligible driver, order left for retry",
			slog.String("order_id", orderID.String()))
	default:
		c.logger.InfoContext(ctx, "driver assigned",
			slog.String("order_id", orderID.String()),
			slog.String("driver_id", assigned.ID().String()))
	}
}
