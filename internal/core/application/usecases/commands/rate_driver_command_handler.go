package commands

import (
	"context"

	"orderhub/internal/core/domain/model/driver"
)

type RateDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewRateDriverCommandHandler(uowFactory DriverUoWFactory) RateDriverCommandHandler {
	return RateDriverCommandHandler{uowFactory: uowFactory}
}

// Handle returns the driver with the updated rolling average.
func (h RateDriverCommandHandler) Handle(ctx context.Context, cmd RateDriverCommand) (*driver.Driver, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateDriver(ctx, h.uowFactory, cmd.DriverID(), func(d *driver.Driver) error {
		return d.Rate(cmd.Score())
	})
}
