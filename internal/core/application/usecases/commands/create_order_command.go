package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderItemRequest is one requested line: a catalog product and a quantity.
type OrderItemRequest struct {
	ProductID kernel.UUID
	Quantity  int
}

// Adjustments are the optional price adjustments supplied at checkout.
type Adjustments struct {
	Tax      kernel.Money
	Discount kernel.Money
}

type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID  kernel.UUID
	storeID     kernel.UUID
	items       []OrderItemRequest
	destination order.Destination
	payment     order.PaymentMethod
	adjustments Adjustments

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request shape. Prices and availability are
// resolved by the handler against the catalog.
func NewCreateOrderCommand(
	customerID, storeID kernel.UUID,
	items []OrderItemRequest,
	destination order.Destination,
	payment order.PaymentMethod,
	adjustments Adjustments,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		adjustments: adjustments,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setStoreID(storeID),
		cmd.setItems(items),
		cmd.setDestination(destination),
		cmd.setPayment(payment),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) StoreID() kernel.UUID {
	return c.storeID
}

func (c CreateOrderCommand) Items() []OrderItemRequest {
	out := make([]OrderItemRequest, len(c.items))
	copy(out, c.items)
	return out
}

func (c CreateOrderCommand) Destination() order.Destination {
	return c.destination
}

func (c CreateOrderCommand) Payment() order.PaymentMethod {
	return c.payment
}

func (c CreateOrderCommand) Adjustments() Adjustments {
	return c.adjustments
}

func (c *CreateOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *CreateOrderCommand) setStoreID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.storeID = id
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.ProductID.Validate(); err != nil {
			return err
		}
		if item.Quantity < 1 || item.Quantity > order.MaxItemQuantity {
			return errs.NewValueIsOutOfRangeError("quantity", item.Quantity, 1, order.MaxItemQuantity)
		}
	}
	c.items = make([]OrderItemRequest, len(items))
	copy(c.items, items)
	return nil
}

func (c *CreateOrderCommand) setDestination(d order.Destination) error {
	if err := d.Validate(); err != nil {
		return err
	}
	c.destination = d
	return nil
}

func (c *CreateOrderCommand) setPayment(m order.PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	c.payment = m
	return nil
}
