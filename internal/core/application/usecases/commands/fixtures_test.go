package commands_test

import (
	"testing"
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
)

var fixtureTime = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func newDestination() order.Destination {
	return order.Destination{Address: gofakeit.Street(), Phone: gofakeit.Phone()}
}

// orderIn builds an order in the given area and walks it to status through the
// regular lifecycle. Events recorded on the way are cleared.
func orderIn(t *testing.T, areaID kernel.UUID, status order.Status) *order.Order {
	t.Helper()

	item, err := order.NewLineItem(kernel.NewUUID(), gofakeit.BeerName(), 1, kernel.MustMoney(25000))
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(),
		order.Placement{CustomerID: kernel.NewUUID(), StoreID: kernel.NewUUID(), AreaID: areaID},
		[]order.LineItem{item}, order.Charges{DeliveryFee: kernel.MustMoney(3000)},
		newDestination(), order.PaymentCash, 40*time.Minute, fixtureTime)
	require.NoError(t, err)

	path := []order.Status{order.Confirmed, order.Preparing, order.Ready}
	for _, next := range path {
		if o.Status() == status {
			break
		}
		require.NoError(t, o.Transition(next, order.SystemActor(), fixtureTime))
	}
	require.Equal(t, status, o.Status())

	o.ClearDomainEvents()
	return o
}

// availableDriver returns an available driver of areaID with the given rating.
func availableDriver(t *testing.T, areaID kernel.UUID, rating float64) *driver.Driver {
	t.Helper()

	d, err := driver.RestoreDriver(driver.Snapshot{
		ID:          kernel.NewUUID(),
		UserID:      kernel.NewUUID(),
		Name:        gofakeit.Name(),
		Phone:       gofakeit.Phone(),
		Vehicle:     driver.VehicleMotorcycle,
		Status:      driver.Available,
		Active:      true,
		AreaID:      areaID,
		Rating:      rating,
		RatingCount: 1,
		Capacity:    1,
	})
	require.NoError(t, err)
	return d
}

// dispatched returns a ready order already paired with an available driver,
// moved on to status (ready or out_for_delivery).
func dispatched(t *testing.T, status order.Status) (*order.Order, *driver.Driver) {
	t.Helper()

	areaID := kernel.NewUUID()
	o := orderIn(t, areaID, order.Ready)
	d := availableDriver(t, areaID, 4.5)

	require.NoError(t, d.MarkAssigned(o.ID()))
	require.NoError(t, o.AssignDriver(d.ID(), fixtureTime))
	if status == order.OutForDelivery {
		require.NoError(t, o.Transition(order.OutForDelivery, order.SystemActor(), fixtureTime))
	}

	o.ClearDomainEvents()
	return o, d
}

func mustActor(t *testing.T, role order.Role) order.Actor {
	t.Helper()
	a, err := order.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}
