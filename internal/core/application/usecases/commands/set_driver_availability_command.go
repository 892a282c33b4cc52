package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrSetDriverAvailabilityCommandIsNotConstructed = errors.New(
	"SetDriverAvailabilityCommand must be created via NewSetDriverAvailabilityCommand constructor",
)

type SetDriverAvailabilityCommand struct {
	driverID  kernel.UUID
	available bool

	guard guard.ConstructorGuard
}

func NewSetDriverAvailabilityCommand(driverID kernel.UUID, available bool) (SetDriverAvailabilityCommand, error) {
	if err := driverID.Validate(); err != nil {
		return SetDriverAvailabilityCommand{}, err
	}

	return SetDriverAvailabilityCommand{
		driverID:  driverID,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c SetDriverAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverAvailabilityCommandIsNotConstructed)
}

func (c SetDriverAvailabilityCommand) DriverID() kernel.UUID { return c.driverID }
func (c SetDriverAvailabilityCommand) Available() bool       { return c.available }
