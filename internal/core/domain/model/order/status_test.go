package order_test

import (
	"testing"

	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_AdjacencyTable(t *testing.T) {
	allowed := map[order.Status][]order.Status{
		order.Pending:        {order.Confirmed, order.Cancelled},
		order.Confirmed:      {order.Preparing, order.Cancelled},
		order.Preparing:      {order.Ready, order.Cancelled},
		order.Ready:          {order.OutForDelivery, order.Cancelled},
		order.OutForDelivery: {order.Delivered, order.Cancelled},
		order.Delivered:      {},
		order.Cancelled:      {},
	}

	for _, from := range order.Statuses() {
		for _, to := range order.Statuses() {
			want := false
			for _, s := range allowed[from] {
				if s == to {
					want = true
				}
			}

			t.Run(from.String()+"->"+to.String(), func(t *testing.T) {
				next, err := from.Transition(to)

				assert.Equal(t, want, from.CanTransitionTo(to))
				if want {
					require.NoError(t, err)
					assert.Equal(t, to, next)
					return
				}
				require.ErrorIs(t, err, errs.ErrInvalidTransition)
				assert.Equal(t, from, next)
			})
		}
	}
}

func TestStatus_Terminal(t *testing.T) {
	t.Run("should report delivered and cancelled as terminal", func(t *testing.T) {
		for _, s := range order.Statuses() {
			assert.Equal(t, s == order.Delivered || s == order.Cancelled, s.IsTerminal(), s.String())
		}
	})

	t.Run("should attach the terminal cause", func(t *testing.T) {
		_, err := order.Cancelled.Transition(order.Pending)

		var transitionErr *errs.InvalidTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, "cancelled", transitionErr.From)
		assert.Equal(t, "pending", transitionErr.To)
		require.ErrorIs(t, transitionErr.Cause, order.ErrOrderIsTerminal)
	})
}

func TestStatus_CanCancel(t *testing.T) {
	tests := []struct {
		status   order.Status
		regular  bool
		override bool
	}{
		{order.Pending, true, true},
		{order.Confirmed, true, true},
		{order.Preparing, true, true},
		{order.Ready, false, true},
		{order.OutForDelivery, false, true},
		{order.Delivered, false, false},
		{order.Cancelled, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.status.String(), func(t *testing.T) {
			assert.Equal(t, tt.regular, tt.status.CanCancel(false))
			assert.Equal(t, tt.override, tt.status.CanCancel(true))
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Run("should round trip every status name", func(t *testing.T) {
		for _, s := range order.Statuses() {
			parsed, err := order.ParseStatus(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("should reject unknown names", func(t *testing.T) {
		_, err := order.ParseStatus("unknown")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)

		_, err = order.ParseStatus("Shipped")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
	require.NoError(t, order.Ready.Validate())
	assert.Equal(t, "unknown", order.Status(42).String())
}

func TestStatus_AllowedNextIsACopy(t *testing.T) {
	next := order.Pending.AllowedNext()
	next[0] = order.Delivered

	assert.Equal(t, []order.Status{order.Confirmed, order.Cancelled}, order.Pending.AllowedNext())
}
