package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrSetDriverActiveCommandIsNotConstructed = errors.New(
	"SetDriverActiveCommand must be created via NewSetDriverActiveCommand constructor",
)

// SetDriverActiveCommand is the operator switch that admits a driver to dispatch or
// removes them from it, independent of the driver's own availability toggle.
type SetDriverActiveCommand struct {
	driverID kernel.UUID
	active   bool

	guard guard.ConstructorGuard
}

func NewSetDriverActiveCommand(driverID kernel.UUID, active bool) (SetDriverActiveCommand, error) {
	if err := driverID.Validate(); err != nil {
		return SetDriverActiveCommand{}, err
	}

	return SetDriverActiveCommand{
		driverID: driverID,
		active:   active,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SetDriverActiveCommand) Validate() error {
	return c.guard.Validate(ErrSetDriverActiveCommandIsNotConstructed)
}

func (c SetDriverActiveCommand) DriverID() kernel.UUID { return c.driverID }
func (c SetDriverActiveCommand) Active() bool          { return c.active }
