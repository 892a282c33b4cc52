package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Status
	actor   order.Actor

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(orderID kernel.UUID, target order.Status, actor order.Actor) (UpdateOrderStatusCommand, error) {
	cmd := UpdateOrderStatusCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setTarget(target),
		cmd.setActor(actor),
	); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c UpdateOrderStatusCommand) Target() order.Status { return c.target }
func (c UpdateOrderStatusCommand) Actor() order.Actor   { return c.actor }

func (c *UpdateOrderStatusCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *UpdateOrderStatusCommand) setTarget(s order.Status) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.target = s
	return nil
}

func (c *UpdateOrderStatusCommand) setActor(a order.Actor) error {
	if _, err := order.NewActor(a.ID, a.Role); err != nil {
		return err
	}
	c.actor = a
	return nil
}
