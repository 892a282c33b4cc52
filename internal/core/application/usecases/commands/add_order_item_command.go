package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var (
	ErrAddOrderItemCommandIsNotConstructed = errors.New(
		"AddOrderItemCommand must be created via NewAddOrderItemCommand constructor",
	)
	ErrRemoveOrderItemCommandIsNotConstructed = errors.New(
		"RemoveOrderItemCommand must be created via NewRemoveOrderItemCommand constructor",
	)
)

// AddOrderItemCommand adds a catalog product to an open order. Adding a product
// already on the order increases its quantity.
type AddOrderItemCommand struct {
	orderID   kernel.UUID
	productID kernel.UUID
	quantity  int

	guard guard.ConstructorGuard
}

func NewAddOrderItemCommand(orderID, productID kernel.UUID, quantity int) (AddOrderItemCommand, error) {
	var quantityErr error
	if quantity < 1 || quantity > order.MaxItemQuantity {
		quantityErr = errs.NewValueIsOutOfRangeError("quantity", quantity, 1, order.MaxItemQuantity)
	}
	if err := errors.Join(orderID.Validate(), productID.Validate(), quantityErr); err != nil {
		return AddOrderItemCommand{}, err
	}

	return AddOrderItemCommand{
		orderID:   orderID,
		productID: productID,
		quantity:  quantity,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrAddOrderItemCommandIsNotConstructed)
}

func (c AddOrderItemCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AddOrderItemCommand) ProductID() kernel.UUID { return c.productID }
func (c AddOrderItemCommand) Quantity() int          { return c.quantity }

// RemoveOrderItemCommand drops a product line from an open order.
type RemoveOrderItemCommand struct {
	orderID   kernel.UUID
	productID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRemoveOrderItemCommand(orderID, productID kernel.UUID) (RemoveOrderItemCommand, error) {
	if err := errors.Join(orderID.Validate(), productID.Validate()); err != nil {
		return RemoveOrderItemCommand{}, err
	}

	return RemoveOrderItemCommand{
		orderID:   orderID,
		productID: productID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RemoveOrderItemCommand) Validate() error {
	return c.guard.Validate(ErrRemoveOrderItemCommandIsNotConstructed)
}

func (c RemoveOrderItemCommand) OrderID() kernel.UUID   { return c.orderID }
func (c RemoveOrderItemCommand) ProductID() kernel.UUID { return c.productID }
