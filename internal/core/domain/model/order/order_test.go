package order_test

import (
	"testing"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func newPlacement() order.Placement {
	return order.Placement{
		CustomerID: kernel.NewUUID(),
		StoreID:    kernel.NewUUID(),
		AreaID:     kernel.NewUUID(),
	}
}

func newDestination() order.Destination {
	return order.Destination{
		Address: gofakeit.Street(),
		Phone:   gofakeit.Phone(),
	}
}

func newItem(t *testing.T, price int64, qty int) order.LineItem {
	t.Helper()
	item, err := order.NewLineItem(kernel.NewUUID(), gofakeit.ProductName(), qty, kernel.MustMoney(price))
	require.NoError(t, err)
	return item
}

func newOrder(t *testing.T, items ...order.LineItem) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []order.LineItem{newItem(t, 50000, 2)}
	}
	o, err := order.NewOrder(kernel.NewUUID(), newPlacement(), items,
		order.Charges{DeliveryFee: kernel.MustMoney(5000)}, newDestination(),
		order.PaymentCash, 45*time.Minute, placedAt)
	require.NoError(t, err)
	return o
}

func customer() order.Actor {
	return order.Actor{ID: kernel.NewUUID(), Role: order.RoleCustomer}
}

func operator() order.Actor {
	return order.Actor{ID: kernel.NewUUID(), Role: order.RoleOperator}
}

// advance walks the happy path up to target, assigning a driver at ready.
func advance(t *testing.T, o *order.Order, target order.Status) {
	t.Helper()
	path := []order.Status{order.Confirmed, order.Preparing, order.Ready, order.OutForDelivery, order.Delivered}
	for _, s := range path {
		if o.Status() == target {
			break
		}
		if s == order.OutForDelivery && o.Driver() == nil {
			require.NoError(t, o.AssignDriver(kernel.NewUUID(), placedAt))
		}
		require.NoError(t, o.Transition(s, order.SystemActor(), placedAt))
	}
	require.Equal(t, target, o.Status())
	o.ClearDomainEvents()
}

func TestNewOrder(t *testing.T) {
	t.Run("should compute totals for the reference scenario", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, "100000.00", o.Subtotal().String())
		assert.Equal(t, "105000.00", o.Total().String())
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, order.PaymentPending, o.PaymentStatus())
		assert.Nil(t, o.Driver())
		assert.Nil(t, o.DeliveredAt())
	})

	t.Run("should include tax and discount", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), newPlacement(),
			[]order.LineItem{newItem(t, 1000, 3), newItem(t, 250, 4)},
			order.Charges{
				DeliveryFee: kernel.MustMoney(500),
				Tax:         kernel.MustMoney(200),
				Discount:    kernel.MustMoney(700),
			},
			newDestination(), order.PaymentCard, time.Hour, placedAt)

		require.NoError(t, err)
		assert.Equal(t, "4000.00", o.Subtotal().String())
		assert.Equal(t, "4000.00", o.Total().String())
	})

	t.Run("should record exactly one OrderCreated event", func(t *testing.T) {
		o := newOrder(t)

		events := o.DomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(order.OrderCreated)
		require.True(t, ok)
		assert.True(t, created.OrderID.IsEqual(o.ID()))
		assert.True(t, created.CustomerID.IsEqual(o.CustomerID()))
		assert.Equal(t, order.EventOrderCreated, created.EventName())
	})

	t.Run("should reject empty items as a validation error", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), newPlacement(), nil,
			order.Charges{}, newDestination(), order.PaymentCash, 0, placedAt)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "items")
	})

	t.Run("should reject a discount larger than the gross amount", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), newPlacement(), []order.LineItem{newItem(t, 100, 1)},
			order.Charges{Discount: kernel.MustMoney(101)}, newDestination(), order.PaymentCash, 0, placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should join every invalid field", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, order.Placement{}, []order.LineItem{newItem(t, 1, 1)},
			order.Charges{}, order.Destination{}, order.PaymentMethod("barter"), -time.Minute, placedAt)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "delivery address")
		assert.Contains(t, err.Error(), "contact phone")
		assert.Contains(t, err.Error(), "payment method")
		assert.Contains(t, err.Error(), "estimated delivery")
	})
}

func TestOrder_Transition(t *testing.T) {
	t.Run("should follow the happy path and stamp delivered_at", func(t *testing.T) {
		o := newOrder(t)
		deliveredAt := placedAt.Add(40 * time.Minute)

		advance(t, o, order.OutForDelivery)
		require.NoError(t, o.Transition(order.Delivered, order.SystemActor(), deliveredAt))

		assert.Equal(t, order.Delivered, o.Status())
		require.NotNil(t, o.DeliveredAt())
		assert.Equal(t, deliveredAt, *o.DeliveredAt())
		assert.Equal(t, deliveredAt, o.UpdatedAt())
	})

	t.Run("should record exactly one OrderStatusChanged per transition", func(t *testing.T) {
		o := newOrder(t)
		o.ClearDomainEvents()
		actor := customer()

		require.NoError(t, o.Transition(order.Confirmed, actor, placedAt))

		events := o.DomainEvents()
		require.Len(t, events, 1)
		changed, ok := events[0].(order.OrderStatusChanged)
		require.True(t, ok)
		assert.Equal(t, order.Pending, changed.OldStatus)
		assert.Equal(t, order.Confirmed, changed.NewStatus)
		assert.Equal(t, actor, changed.Actor)
	})

	t.Run("should reject unreachable targets without side effects", func(t *testing.T) {
		o := newOrder(t)
		o.ClearDomainEvents()
		before := o.UpdatedAt()

		err := o.Transition(order.Delivered, customer(), placedAt.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Pending, o.Status())
		assert.Equal(t, before, o.UpdatedAt())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should reject leaving for delivery without a driver", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.Ready)

		err := o.Transition(order.OutForDelivery, order.SystemActor(), placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, order.ErrDriverRequired)
		assert.Equal(t, order.Ready, o.Status())
		assert.Empty(t, o.DomainEvents())
	})

	for _, terminal := range []order.Status{order.Delivered, order.Cancelled} {
		t.Run("should reject every transition once "+terminal.String(), func(t *testing.T) {
			o := newOrder(t)
			if terminal == order.Delivered {
				advance(t, o, order.Delivered)
			} else {
				require.NoError(t, o.Cancel(customer(), placedAt))
				o.ClearDomainEvents()
			}
			total := o.Total()

			for _, target := range order.Statuses() {
				err := o.Transition(target, operator(), placedAt)
				require.ErrorIs(t, err, errs.ErrInvalidTransition, target.String())
			}

			assert.Equal(t, terminal, o.Status())
			assert.True(t, total.IsEqual(o.Total()))
			assert.Empty(t, o.DomainEvents())
		})
	}
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should allow customers to cancel before ready", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Confirmed, order.Preparing} {
			o := newOrder(t)
			advance(t, o, s)

			require.NoError(t, o.Cancel(customer(), placedAt), s.String())
			assert.Equal(t, order.Cancelled, o.Status())
		}
	})

	t.Run("should require an operator once ready", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.Ready)

		err := o.Cancel(customer(), placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		require.ErrorIs(t, err, order.ErrCancellationNotAllowed)
		assert.Equal(t, order.Ready, o.Status())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should let operators force-cancel out for delivery", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.OutForDelivery)
		driverID := o.Driver()

		require.NoError(t, o.Cancel(operator(), placedAt))

		assert.Equal(t, order.Cancelled, o.Status())
		assert.Equal(t, driverID, o.Driver())
		require.Len(t, o.DomainEvents(), 1)
	})

	t.Run("should reject cancelling a delivered order even for operators", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.Delivered)

		err := o.Cancel(operator(), placedAt)

		require.ErrorIs(t, err, order.ErrOrderIsTerminal)
	})
}

func TestOrder_AssignDriver(t *testing.T) {
	t.Run("should attach a driver at ready and record DriverAssigned", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.Ready)
		driverID := kernel.NewUUID()

		require.NoError(t, o.AssignDriver(driverID, placedAt))

		require.NotNil(t, o.Driver())
		assert.True(t, o.Driver().IsEqual(driverID))
		assert.Equal(t, order.Ready, o.Status())
		assert.False(t, o.IsAwaitingDriver())
		events := o.DomainEvents()
		require.Len(t, events, 1)
		assigned, ok := events[0].(order.DriverAssigned)
		require.True(t, ok)
		assert.True(t, assigned.DriverID.IsEqual(driverID))
	})

	t.Run("should treat the same driver as a no-op", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.Ready)
		driverID := kernel.NewUUID()
		require.NoError(t, o.AssignDriver(driverID, placedAt))
		o.ClearDomainEvents()

		require.NoError(t, o.AssignDriver(driverID, placedAt))

		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should refuse replacing an assigned driver", func(t *testing.T) {
		o := newOrder(t)
		advance(t, o, order.Ready)
		require.NoError(t, o.AssignDriver(kernel.NewUUID(), placedAt))

		require.Error(t, o.AssignDriver(kernel.NewUUID(), placedAt))
	})

	t.Run("should refuse assignment before ready or after cancellation", func(t *testing.T) {
		o := newOrder(t)
		require.ErrorIs(t, o.AssignDriver(kernel.NewUUID(), placedAt), errs.ErrInvalidTransition)

		require.NoError(t, o.Cancel(customer(), placedAt))
		err := o.AssignDriver(kernel.NewUUID(), placedAt)
		require.ErrorIs(t, err, order.ErrOrderIsTerminal)
		assert.Nil(t, o.Driver())
	})
}

func TestOrder_ItemMutations(t *testing.T) {
	t.Run("should keep the total invariant after adding and removing items", func(t *testing.T) {
		first := newItem(t, 50000, 2)
		o := newOrder(t, first)
		extra := newItem(t, 1500, 3)

		require.NoError(t, o.AddItem(extra, placedAt))
		assert.Equal(t, "104500.00", o.Subtotal().String())
		assert.Equal(t, "109500.00", o.Total().String())

		require.NoError(t, o.RemoveItem(extra.ProductID(), placedAt))
		assert.Equal(t, "105000.00", o.Total().String())
	})

	t.Run("should merge quantities for the same product", func(t *testing.T) {
		item := newItem(t, 1000, 1)
		o := newOrder(t, item)

		more, err := order.NewLineItem(item.ProductID(), item.Name(), 2, item.UnitPrice())
		require.NoError(t, err)
		require.NoError(t, o.AddItem(more, placedAt))

		require.Len(t, o.Items(), 1)
		assert.Equal(t, 3, o.Items()[0].Quantity())
		assert.Equal(t, "3000.00", o.Subtotal().String())
	})

	t.Run("should not remove the last item", func(t *testing.T) {
		item := newItem(t, 1000, 1)
		o := newOrder(t, item)

		err := o.RemoveItem(item.ProductID(), placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Len(t, o.Items(), 1)
		assert.Equal(t, "6000.00", o.Total().String())
	})

	t.Run("should roll back a discount that would make the total negative", func(t *testing.T) {
		o := newOrder(t)

		err := o.ApplyDiscount(kernel.MustMoney(200000), placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.True(t, o.Discount().IsZero())
		assert.Equal(t, "105000.00", o.Total().String())
	})

	t.Run("should roll back a tax cut that the discount no longer covers", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.SetTax(kernel.MustMoney(10000), placedAt))
		require.NoError(t, o.ApplyDiscount(kernel.MustMoney(115000), placedAt))
		require.True(t, o.Total().IsZero())

		err := o.SetTax(kernel.ZeroMoney, placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		assert.Equal(t, "10000.00", o.Tax().String())
		assert.Equal(t, "0.00", o.Total().String())
		assert.Equal(t, "100000.00", o.Subtotal().String())
	})

	t.Run("should accept a tax and discount pair that is only valid together", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.AdjustCharges(kernel.MustMoney(10000), kernel.MustMoney(115000), placedAt))

		require.NoError(t, o.AdjustCharges(kernel.ZeroMoney, kernel.MustMoney(50000), placedAt))

		assert.True(t, o.Tax().IsZero())
		assert.Equal(t, "55000.00", o.Total().String())
	})

	t.Run("should apply tax and discount", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.SetTax(kernel.MustMoney(1000), placedAt))
		require.NoError(t, o.ApplyDiscount(kernel.MustMoney(6000), placedAt))

		assert.Equal(t, "100000.00", o.Total().String())
	})

	t.Run("should reject monetary mutation once terminal", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.Cancel(customer(), placedAt))

		require.ErrorIs(t, o.AddItem(newItem(t, 1, 1), placedAt), errs.ErrValueIsInvalid)
		require.ErrorIs(t, o.ApplyDiscount(kernel.MustMoney(1), placedAt), errs.ErrValueIsInvalid)
		require.ErrorContains(t, o.SetTax(kernel.MustMoney(1), placedAt), order.ErrOrderIsTerminal.Error())
		assert.Equal(t, "105000.00", o.Total().String())
	})
}

func TestOrder_Payment(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.MarkPaid(placedAt))
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())

	require.NoError(t, o.Cancel(customer(), placedAt))
	require.Error(t, o.MarkPaymentFailed(placedAt))
	assert.Equal(t, order.PaymentPaid, o.PaymentStatus())
}

func TestRestoreOrder(t *testing.T) {
	t.Run("should rebuild state without recording events", func(t *testing.T) {
		item := newItem(t, 2500, 4)
		driverID := kernel.NewUUID()
		deliveredAt := placedAt.Add(time.Hour)

		o, err := order.RestoreOrder(order.Snapshot{
			ID:            kernel.NewUUID(),
			Placement:     newPlacement(),
			Items:         []order.LineItem{item},
			Charges:       order.Charges{DeliveryFee: kernel.MustMoney(1000)},
			PaymentStatus: order.PaymentPaid,
			PaymentMethod: order.PaymentCard,
			Destination:   newDestination(),
			DriverID:      &driverID,
			DeliveredAt:   &deliveredAt,
			Status:        order.Delivered,
			CreatedAt:     placedAt,
			UpdatedAt:     deliveredAt,
			Version:       7,
		})

		require.NoError(t, err)
		assert.Equal(t, "11000.00", o.Total().String())
		assert.Equal(t, 7, o.Version())
		assert.Equal(t, order.Delivered, o.Status())
		assert.Empty(t, o.DomainEvents())
	})

	t.Run("should reject a driver on a pending order", func(t *testing.T) {
		driverID := kernel.NewUUID()

		_, err := order.RestoreOrder(order.Snapshot{
			ID:            kernel.NewUUID(),
			Placement:     newPlacement(),
			Items:         []order.LineItem{newItem(t, 1, 1)},
			PaymentStatus: order.PaymentPending,
			PaymentMethod: order.PaymentCash,
			DriverID:      &driverID,
			Status:        order.Pending,
		})

		require.Error(t, err)
	})
}

func TestOrder_ValidateZeroValue(t *testing.T) {
	var o *order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}
