package events_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"orderhub/internal/adapters/out/events"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var occurredAt = time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)

func TestMulticaster_Publish(t *testing.T) {
	t.Run("should deliver every event to every handler in order", func(t *testing.T) {
		var seen []string
		record := func(prefix string) events.HandlerFunc {
			return func(_ context.Context, e kernel.DomainEvent) error {
				seen = append(seen, prefix+":"+e.EventName())
				return nil
			}
		}
		m := events.NewMulticaster(nil, record("a"))
		m.Subscribe(record("b"))

		created := order.OrderCreated{OrderID: kernel.NewUUID(), Total: kernel.MustMoney(10), At: occurredAt}
		assigned := order.DriverAssigned{OrderID: created.OrderID, DriverID: kernel.NewUUID(), At: occurredAt}

		require.NoError(t, m.Publish(t.Context(), created, assigned))

		want := []string{
			"a:order.created", "b:order.created",
			"a:order.driver_assigned", "b:order.driver_assigned",
		}
		if diff := cmp.Diff(want, seen); diff != "" {
			t.Errorf("delivery order mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep going after a handler fails", func(t *testing.T) {
		boom := errors.New("broker unreachable")
		calls := 0
		m := events.NewMulticaster(nil,
			events.HandlerFunc(func(context.Context, kernel.DomainEvent) error { return boom }),
			events.HandlerFunc(func(context.Context, kernel.DomainEvent) error { calls++; return nil }),
		)

		err := m.Publish(t.Context(), order.OrderCreated{OrderID: kernel.NewUUID(), Total: kernel.MustMoney(1)})

		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "order.created")
		assert.Equal(t, 1, calls)
	})

	t.Run("should accept no events", func(t *testing.T) {
		m := events.NewMulticaster(nil)
		require.NoError(t, m.Publish(t.Context()))
	})
}

func TestNewEnvelope(t *testing.T) {
	orderID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	operator, err := order.NewActor(kernel.NewUUID(), order.RoleOperator)
	require.NoError(t, err)

	env := events.NewEnvelope(order.OrderStatusChanged{
		OrderID:    orderID,
		CustomerID: kernel.NewUUID(),
		StoreID:    kernel.NewUUID(),
		DriverID:   &driverID,
		OldStatus:  order.OutForDelivery,
		NewStatus:  order.Cancelled,
		Actor:      operator,
		At:         occurredAt,
	})

	assert.NotEmpty(t, env.ID)
	assert.Equal(t, "order.status_changed", env.Name)
	assert.Equal(t, orderID.String(), env.AggregateID)
	assert.Equal(t, occurredAt, env.OccurredAt)
	assert.Equal(t, "out_for_delivery", env.Payload["old_status"])
	assert.Equal(t, "cancelled", env.Payload["new_status"])
	assert.Equal(t, "operator", env.Payload["actor_role"])
	assert.Equal(t, operator.ID.String(), env.Payload["actor_id"])
	assert.Equal(t, driverID.String(), env.Payload["driver_id"])

	raw, err := env.Marshal()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "2026-09-01T12:30:00Z", decoded["occurred_at"])
	assert.Equal(t, env.ID, decoded["id"])
}

func TestNewEnvelope_OrderCreatedWithoutDriver(t *testing.T) {
	env := events.NewEnvelope(order.OrderCreated{
		OrderID: kernel.NewUUID(), CustomerID: kernel.NewUUID(), StoreID: kernel.NewUUID(),
		Total: kernel.MustMoney(74000), At: occurredAt,
	})

	assert.Equal(t, "74000.00", env.Payload["total"])
	assert.NotContains(t, env.Payload, "driver_id")
}
