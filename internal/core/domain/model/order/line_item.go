package order

import (
	"errors"
	"fmt"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

// MaxItemQuantity caps the quantity of a single line.
const MaxItemQuantity = 1000

var ErrLineItemIsNotConstructed = errors.New("LineItem must be created via NewLineItem constructor")

// LineItem is one product line of an order. Its unit price is captured at placement
// time so later catalog price changes do not alter placed orders.
type LineItem struct { //nolint:recvcheck //using for validation
	productID kernel.UUID
	name      string
	quantity  int
	unitPrice kernel.Money
	guard     guard.ConstructorGuard
}

// NewLineItem validates and builds a line.
//
// Parameters:
//   - productID: catalog product reference
//   - name: product name at placement time
//   - quantity: 1..MaxItemQuantity
//   - unitPrice: price of one unit
func NewLineItem(productID kernel.UUID, name string, quantity int, unitPrice kernel.Money) (LineItem, error) {
	item := LineItem{guard: guard.NewConstructorGuard(), unitPrice: unitPrice}

	if err := errors.Join(
		item.setProductID(productID),
		item.setName(name),
		item.setQuantity(quantity),
	); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

func (i LineItem) Validate() error {
	return i.guard.Validate(ErrLineItemIsNotConstructed)
}

func (i LineItem) ProductID() kernel.UUID {
	return i.productID
}

func (i LineItem) Name() string {
	return i.name
}

func (i LineItem) Quantity() int {
	return i.quantity
}

func (i LineItem) UnitPrice() kernel.Money {
	return i.unitPrice
}

// LineTotal returns unit price × quantity.
func (i LineItem) LineTotal() kernel.Money {
	total, err := i.unitPrice.Mul(i.quantity)
	if err != nil {
		// quantity is validated positive, so the product cannot be negative
		return kernel.ZeroMoney
	}
	return total
}

func (i LineItem) withQuantity(quantity int) (LineItem, error) {
	if err := i.setQuantity(quantity); err != nil {
		return LineItem{}, err
	}
	return i, nil
}

func (i *LineItem) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *LineItem) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *LineItem) setQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeErrorWithCause("quantity", quantity, 1, MaxItemQuantity,
			fmt.Errorf("product %s", i.productID))
	}
	i.quantity = quantity
	return nil
}
