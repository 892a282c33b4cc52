package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var (
	ErrAdjustOrderChargesCommandIsNotConstructed = errors.New(
		"AdjustOrderChargesCommand must be created via NewAdjustOrderChargesCommand constructor",
	)
	ErrRecordPaymentCommandIsNotConstructed = errors.New(
		"RecordPaymentCommand must be created via NewRecordPaymentCommand constructor",
	)
)

// AdjustOrderChargesCommand replaces the tax, the discount or both. A nil amount
// keeps the order's current value.
type AdjustOrderChargesCommand struct {
	orderID  kernel.UUID
	tax      *kernel.Money
	discount *kernel.Money

	guard guard.ConstructorGuard
}

func NewAdjustOrderChargesCommand(orderID kernel.UUID, tax, discount *kernel.Money) (AdjustOrderChargesCommand, error) {
	var chargesErr error
	if tax == nil && discount == nil {
		chargesErr = errs.NewValueIsRequiredError("tax or discount")
	}
	if err := errors.Join(orderID.Validate(), chargesErr); err != nil {
		return AdjustOrderChargesCommand{}, err
	}

	return AdjustOrderChargesCommand{
		orderID:  orderID,
		tax:      tax,
		discount: discount,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AdjustOrderChargesCommand) Validate() error {
	return c.guard.Validate(ErrAdjustOrderChargesCommandIsNotConstructed)
}

func (c AdjustOrderChargesCommand) OrderID() kernel.UUID    { return c.orderID }
func (c AdjustOrderChargesCommand) Tax() *kernel.Money      { return c.tax }
func (c AdjustOrderChargesCommand) Discount() *kernel.Money { return c.discount }

// RecordPaymentCommand stores the outcome reported by the payment collaborator.
type RecordPaymentCommand struct {
	orderID kernel.UUID
	status  order.PaymentStatus

	guard guard.ConstructorGuard
}

func NewRecordPaymentCommand(orderID kernel.UUID, status order.PaymentStatus) (RecordPaymentCommand, error) {
	var statusErr error
	if status != order.PaymentPaid && status != order.PaymentFailed {
		statusErr = errs.NewValueIsInvalidError("payment status")
	}
	if err := errors.Join(orderID.Validate(), statusErr); err != nil {
		return RecordPaymentCommand{}, err
	}

	return RecordPaymentCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RecordPaymentCommand) Validate() error {
	return c.guard.Validate(ErrRecordPaymentCommandIsNotConstructed)
}

func (c RecordPaymentCommand) OrderID() kernel.UUID        { return c.orderID }
func (c RecordPaymentCommand) Status() order.PaymentStatus { return c.status }
