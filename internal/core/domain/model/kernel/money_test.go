package kernel_test

import (
	"testing"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("should accept zero and positive amounts", func(t *testing.T) {
		zero, err := kernel.NewMoney(decimal.Zero)
		require.NoError(t, err)
		assert.True(t, zero.IsZero())

		m, err := kernel.MoneyFromString("12.50")
		require.NoError(t, err)
		assert.Equal(t, "12.50", m.String())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.MoneyFromInt(-1)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should reject malformed strings", func(t *testing.T) {
		_, err := kernel.MoneyFromString("twelve")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustMoney(50000)

	t.Run("should multiply by quantity", func(t *testing.T) {
		total, err := price.Mul(2)

		require.NoError(t, err)
		assert.True(t, total.IsEqual(kernel.MustMoney(100000)))
	})

	t.Run("should add exactly", func(t *testing.T) {
		a, _ := kernel.MoneyFromString("0.10")
		b, _ := kernel.MoneyFromString("0.20")

		assert.Equal(t, "0.30", a.Add(b).String())
	})

	t.Run("should refuse to go below zero", func(t *testing.T) {
		_, err := kernel.MustMoney(10).Sub(kernel.MustMoney(11))

		require.Error(t, err)
	})

	t.Run("should compare amounts", func(t *testing.T) {
		assert.True(t, price.GreaterThan(kernel.MustMoney(1)))
		assert.False(t, kernel.ZeroMoney.GreaterThan(price))
	})
}
