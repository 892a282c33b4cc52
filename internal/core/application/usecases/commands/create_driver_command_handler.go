package commands

import (
	"context"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
)

// CreateDriverCommandHandler registers a new driver. Drivers start offline and
// active; they become dispatchable once they toggle themselves available.
type CreateDriverCommandHandler struct {
	uowFactory      DriverUoWFactory
	defaultCapacity int
}

func NewCreateDriverCommandHandler(uowFactory DriverUoWFactory, defaultCapacity int) CreateDriverCommandHandler {
	return CreateDriverCommandHandler{
		uowFactory:      uowFactory,
		defaultCapacity: defaultCapacity,
	}
}

func (h CreateDriverCommandHandler) Handle(ctx context.Context, cmd CreateDriverCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	capacity := cmd.Capacity()
	if capacity == 0 {
		capacity = h.defaultCapacity
	}

	d, err := driver.NewDriver(kernel.NewUUID(), cmd.UserID(), cmd.Name(), cmd.Phone(), cmd.Vehicle(), cmd.AreaID(), capacity)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DriverRepository().Add(ctx, d); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return d.ID(), nil
}
