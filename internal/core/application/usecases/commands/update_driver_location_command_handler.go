package commands

import (
	"context"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
)

type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewUpdateDriverLocationCommandHandler(uowFactory DriverUoWFactory) UpdateDriverLocationCommandHandler {
	return UpdateDriverLocationCommandHandler{uowFactory: uowFactory}
}

func (h UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := updateDriver(ctx, h.uowFactory, cmd.DriverID(), func(d *driver.Driver) error {
		return d.UpdateLocation(cmd.Location())
	})
	return err
}

// updateDriver locks one driver, applies change and writes it back.
func updateDriver(
	ctx context.Context,
	uowFactory DriverUoWFactory,
	driverID kernel.UUID,
	change func(d *driver.Driver) error,
) (*driver.Driver, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	d, err := driverRepo.GetForUpdate(ctx, driverID)
	if err != nil {
		return nil, err
	}

	if err = change(d); err != nil {
		return nil, err
	}

	if err = driverRepo.Update(ctx, d); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}
