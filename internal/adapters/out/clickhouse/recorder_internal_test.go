package clickhouse

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []any
}

type fakeExecer struct {
	calls []execCall
	err   error
}

func (f *fakeExecer) Exec(_ context.Context, query string, args ...any) error {
	f.calls = append(f.calls, execCall{query: query, args: args})
	return f.err
}

func TestRecorder_Handle(t *testing.T) {
	t.Run("should insert one row per event", func(t *testing.T) {
		exec := &fakeExecer{}
		r := newRecorder(exec, "analytics", nil)
		at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
		orderID := kernel.NewUUID()

		err := r.Handle(t.Context(), order.OrderStatusChanged{
			OrderID:   orderID,
			OldStatus: order.Ready,
			NewStatus: order.OutForDelivery,
			Actor:     order.SystemActor(),
			At:        at,
		})

		require.NoError(t, err)
		require.Len(t, exec.calls, 1)
		call := exec.calls[0]
		assert.Contains(t, call.query, "INSERT INTO analytics.order_events")
		require.Len(t, call.args, 5)
		assert.Equal(t, "order.status_changed", call.args[1])
		assert.Equal(t, orderID.String(), call.args[2])
		assert.Equal(t, at, call.args[3])

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(call.args[4].(string)), &payload))
		assert.Equal(t, call.args[0], payload["id"])
	})

	t.Run("should wrap insert errors", func(t *testing.T) {
		boom := errors.New("code: 60, table does not exist")
		r := newRecorder(&fakeExecer{err: boom}, "", nil)

		err := r.Handle(t.Context(), order.OrderCreated{OrderID: kernel.NewUUID(), Total: kernel.MustMoney(5)})

		require.ErrorIs(t, err, boom)
	})
}

func TestRecorder_EnsureSchema(t *testing.T) {
	exec := &fakeExecer{}
	r := newRecorder(exec, "", nil)

	require.NoError(t, r.EnsureSchema(t.Context()))
	require.Len(t, exec.calls, 1)
	assert.True(t, strings.Contains(exec.calls[0].query, "CREATE TABLE IF NOT EXISTS order_events"))
	assert.Contains(t, exec.calls[0].query, "MergeTree")
	assert.NoError(t, r.Close())
}
