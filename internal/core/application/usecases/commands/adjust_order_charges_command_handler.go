package commands

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/order"
)

type AdjustOrderChargesCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewAdjustOrderChargesCommandHandler(uowFactory OrderUoWFactory) AdjustOrderChargesCommandHandler {
	return AdjustOrderChargesCommandHandler{uowFactory: uowFactory}
}

// Handle applies both amounts at once; a total that would turn negative is rejected
// and the stored order is left unchanged.
func (h AdjustOrderChargesCommandHandler) Handle(ctx context.Context, cmd AdjustOrderChargesCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		tax, discount := o.Tax(), o.Discount()
		if cmd.Tax() != nil {
			tax = *cmd.Tax()
		}
		if cmd.Discount() != nil {
			discount = *cmd.Discount()
		}
		return o.AdjustCharges(tax, discount, now)
	})
}

type RecordPaymentCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewRecordPaymentCommandHandler(uowFactory OrderUoWFactory) RecordPaymentCommandHandler {
	return RecordPaymentCommandHandler{uowFactory: uowFactory}
}

func (h RecordPaymentCommandHandler) Handle(ctx context.Context, cmd RecordPaymentCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return updateOrder(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, now time.Time) error {
		if cmd.Status() == order.PaymentPaid {
			return o.MarkPaid(now)
		}
		return o.MarkPaymentFailed(now)
	})
}
