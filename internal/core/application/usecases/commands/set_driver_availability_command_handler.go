package commands

import (
	"context"

	"orderhub/internal/core/domain/model/driver"
)

// SetDriverAvailabilityCommandHandler applies a driver's online/offline toggle.
type SetDriverAvailabilityCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewSetDriverAvailabilityCommandHandler(uowFactory DriverUoWFactory) SetDriverAvailabilityCommandHandler {
	return SetDriverAvailabilityCommandHandler{uowFactory: uowFactory}
}

// Handle returns the updated driver. Going offline while holding orders fails
// with driver.ErrDriverHasActiveOrders.
func (h SetDriverAvailabilityCommandHandler) Handle(
	ctx context.Context,
	cmd SetDriverAvailabilityCommand,
) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateDriver(ctx, h.uowFactory, cmd.DriverID(), func(d *driver.Driver) error {
		return d.SetAvailability(cmd.Available())
	})
}
