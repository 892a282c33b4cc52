package driver_test

import (
	"testing"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDriver(t *testing.T, areaID kernel.UUID, capacity int) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), gofakeit.Name(), gofakeit.Phone(),
		driver.VehicleMotorcycle, areaID, capacity)
	require.NoError(t, err)
	return d
}

func availableDriver(t *testing.T, capacity int) *driver.Driver {
	t.Helper()
	d := newDriver(t, kernel.NewUUID(), capacity)
	require.NoError(t, d.SetAvailability(true))
	return d
}

func TestNewDriver(t *testing.T) {
	t.Run("should start active, offline and with default capacity", func(t *testing.T) {
		d := newDriver(t, kernel.NewUUID(), 0)

		require.NoError(t, d.Validate())
		assert.True(t, d.IsActive())
		assert.Equal(t, driver.Offline, d.Status())
		assert.Equal(t, driver.DefaultCapacity, d.Capacity())
		assert.Empty(t, d.ActiveOrders())
	})

	t.Run("should join validation errors", func(t *testing.T) {
		_, err := driver.NewDriver(kernel.UUID{}, kernel.NewUUID(), " ", "", driver.VehicleType("rocket"),
			kernel.NewUUID(), -1)

		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))
		assert.Contains(t, err.Error(), "name")
		assert.Contains(t, err.Error(), "phone")
		assert.Contains(t, err.Error(), "vehicle type")
		assert.Contains(t, err.Error(), "capacity")
	})
}

func TestDriver_MarkAssigned(t *testing.T) {
	t.Run("should become busy", func(t *testing.T) {
		d := availableDriver(t, 1)
		orderID := kernel.NewUUID()

		require.NoError(t, d.MarkAssigned(orderID))

		assert.Equal(t, driver.Busy, d.Status())
		assert.True(t, d.HoldsOrder(orderID))
	})

	t.Run("should be idempotent for the same order", func(t *testing.T) {
		d := availableDriver(t, 1)
		orderID := kernel.NewUUID()

		require.NoError(t, d.MarkAssigned(orderID))
		require.NoError(t, d.MarkAssigned(orderID))

		assert.Equal(t, driver.Busy, d.Status())
		assert.Len(t, d.ActiveOrders(), 1)
		assert.Equal(t, 0, d.TotalDeliveries())
	})

	t.Run("should refuse a second order at capacity", func(t *testing.T) {
		d := availableDriver(t, 1)
		require.NoError(t, d.MarkAssigned(kernel.NewUUID()))

		err := d.MarkAssigned(kernel.NewUUID())

		require.ErrorIs(t, err, driver.ErrDriverAtCapacity)
		assert.Len(t, d.ActiveOrders(), 1)
	})

	t.Run("should refuse inactive and offline drivers", func(t *testing.T) {
		offline := newDriver(t, kernel.NewUUID(), 1)
		require.ErrorIs(t, offline.MarkAssigned(kernel.NewUUID()), driver.ErrDriverOffline)

		inactive := availableDriver(t, 1)
		inactive.Deactivate()
		require.ErrorIs(t, inactive.MarkAssigned(kernel.NewUUID()), driver.ErrDriverInactive)
		assert.Equal(t, driver.Available, inactive.Status())
	})
}

func TestDriver_Release(t *testing.T) {
	t.Run("should restore available after the only order is released", func(t *testing.T) {
		d := availableDriver(t, 1)
		orderID := kernel.NewUUID()
		require.NoError(t, d.MarkAssigned(orderID))

		d.Release(orderID)

		assert.Equal(t, driver.Available, d.Status())
		assert.Empty(t, d.ActiveOrders())
	})

	t.Run("should stay busy while another order is held", func(t *testing.T) {
		d := availableDriver(t, 2)
		first, second := kernel.NewUUID(), kernel.NewUUID()
		require.NoError(t, d.MarkAssigned(first))
		require.NoError(t, d.MarkAssigned(second))

		d.Release(first)

		assert.Equal(t, driver.Busy, d.Status())
		assert.Equal(t, []kernel.UUID{second}, d.ActiveOrders())
	})

	t.Run("should ignore orders the driver does not hold", func(t *testing.T) {
		d := availableDriver(t, 1)
		held := kernel.NewUUID()
		require.NoError(t, d.MarkAssigned(held))

		d.Release(kernel.NewUUID())

		assert.Equal(t, driver.Busy, d.Status())
		assert.True(t, d.HoldsOrder(held))
	})
}

func TestDriver_CompleteDelivery(t *testing.T) {
	d := availableDriver(t, 1)
	orderID := kernel.NewUUID()
	require.NoError(t, d.MarkAssigned(orderID))

	d.CompleteDelivery(orderID)
	d.CompleteDelivery(orderID)

	assert.Equal(t, 1, d.TotalDeliveries())
	assert.Equal(t, driver.Available, d.Status())
}

func TestDriver_SetAvailability(t *testing.T) {
	t.Run("should toggle between offline and available", func(t *testing.T) {
		d := newDriver(t, kernel.NewUUID(), 1)

		require.NoError(t, d.SetAvailability(true))
		assert.Equal(t, driver.Available, d.Status())

		require.NoError(t, d.SetAvailability(false))
		assert.Equal(t, driver.Offline, d.Status())
	})

	t.Run("should refuse going offline with active orders", func(t *testing.T) {
		d := availableDriver(t, 1)
		require.NoError(t, d.MarkAssigned(kernel.NewUUID()))

		require.ErrorIs(t, d.SetAvailability(false), driver.ErrDriverHasActiveOrders)
		assert.Equal(t, driver.Busy, d.Status())
	})

	t.Run("should keep busy when toggled available", func(t *testing.T) {
		d := availableDriver(t, 1)
		require.NoError(t, d.MarkAssigned(kernel.NewUUID()))

		require.NoError(t, d.SetAvailability(true))
		assert.Equal(t, driver.Busy, d.Status())
	})
}

func TestDriver_IsEligible(t *testing.T) {
	area := kernel.NewUUID()

	t.Run("should accept available active drivers in the area", func(t *testing.T) {
		d := newDriver(t, area, 1)
		require.NoError(t, d.SetAvailability(true))

		assert.True(t, d.IsEligible(area, true))
		assert.False(t, d.IsEligible(kernel.NewUUID(), true))
	})

	t.Run("should never accept inactive drivers", func(t *testing.T) {
		d := newDriver(t, area, 1)
		require.NoError(t, d.SetAvailability(true))
		d.Deactivate()

		assert.False(t, d.IsEligible(area, true))
		assert.False(t, d.IsEligible(area, false))
	})

	t.Run("should accept busy drivers with spare capacity only when not excluded", func(t *testing.T) {
		d := newDriver(t, area, 2)
		require.NoError(t, d.SetAvailability(true))
		require.NoError(t, d.MarkAssigned(kernel.NewUUID()))

		assert.False(t, d.IsEligible(area, true))
		assert.True(t, d.IsEligible(area, false))
	})
}

func TestDriver_Rate(t *testing.T) {
	d := newDriver(t, kernel.NewUUID(), 1)

	require.NoError(t, d.Rate(5))
	require.NoError(t, d.Rate(4))
	assert.InDelta(t, 4.5, d.Rating(), 1e-9)
	assert.Equal(t, 2, d.RatingCount())

	require.ErrorIs(t, d.Rate(6), errs.ErrValueIsOutOfRange)
	assert.InDelta(t, 4.5, d.Rating(), 1e-9)
}

func TestRestoreDriver(t *testing.T) {
	t.Run("should derive busy from held orders", func(t *testing.T) {
		d, err := driver.RestoreDriver(driver.Snapshot{
			ID:           kernel.NewUUID(),
			UserID:       kernel.NewUUID(),
			Name:         "Ali",
			Phone:        "+9647700000000",
			Vehicle:      driver.VehicleCar,
			Status:       driver.Available,
			Active:       true,
			AreaID:       kernel.NewUUID(),
			Capacity:     1,
			ActiveOrders: []kernel.UUID{kernel.NewUUID()},
		})

		require.NoError(t, err)
		assert.Equal(t, driver.Busy, d.Status())
	})

	t.Run("should downgrade a busy driver without orders", func(t *testing.T) {
		d, err := driver.RestoreDriver(driver.Snapshot{
			ID:       kernel.NewUUID(),
			UserID:   kernel.NewUUID(),
			Name:     "Ali",
			Phone:    "+9647700000000",
			Vehicle:  driver.VehicleCar,
			Status:   driver.Busy,
			Active:   true,
			AreaID:   kernel.NewUUID(),
			Capacity: 1,
		})

		require.NoError(t, err)
		assert.Equal(t, driver.Available, d.Status())
	})
}
