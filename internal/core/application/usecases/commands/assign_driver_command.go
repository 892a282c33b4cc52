package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand asks the dispatch coordinator to find a driver for one order.
type AssignDriverCommand struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(orderID kernel.UUID) (AssignDriverCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}
