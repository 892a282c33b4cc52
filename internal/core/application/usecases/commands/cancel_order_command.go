package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/guard"
)

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

type CancelOrderCommand struct {
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID kernel.UUID, actor order.Actor) (CancelOrderCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CancelOrderCommand{}, err
	}
	if _, err := order.NewActor(actor.ID, actor.Role); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID { return c.orderID }
func (c CancelOrderCommand) Actor() order.Actor   { return c.actor }
