package commands

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// updateOrder locks one order, applies change and writes it back with the version
// check. It serves edits that never touch a driver.
func updateOrder(
	ctx context.Context,
	uowFactory OrderUoWFactory,
	orderID kernel.UUID,
	change func(o *order.Order, now time.Time) error,
) (*order.Order, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	o, err := orderRepo.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = change(o, time.Now().UTC()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
