package commands

import (
	"context"

	"orderhub/internal/core/domain/model/driver"
)

// SetDriverActiveCommandHandler activates or deactivates a driver. A deactivated
// driver keeps the orders already held but is never picked again.
type SetDriverActiveCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewSetDriverActiveCommandHandler(uowFactory DriverUoWFactory) SetDriverActiveCommandHandler {
	return SetDriverActiveCommandHandler{uowFactory: uowFactory}
}

func (h SetDriverActiveCommandHandler) Handle(ctx context.Context, cmd SetDriverActiveCommand) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateDriver(ctx, h.uowFactory, cmd.DriverID(), func(d *driver.Driver) error {
		if cmd.Active() {
			d.Activate()
		} else {
			d.Deactivate()
		}
		return nil
	})
}
