package kernel

import (
	"orderhub/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Money is a non-negative monetary amount in the platform currency.
// Arithmetic is exact (decimal), never float.
type Money struct {
	amount decimal.Decimal
}

// ZeroMoney is the neutral amount; it is a valid Money value.
var ZeroMoney = Money{amount: decimal.Zero}

// NewMoney validates that amount is not negative.
func NewMoney(amount decimal.Decimal) (Money, error) {
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsOutOfRangeError("amount", amount.String(), 0, "+inf")
	}
	return Money{amount: amount}, nil
}

// MoneyFromInt builds Money from a whole amount, e.g. 50000 dinars.
func MoneyFromInt(amount int64) (Money, error) {
	return NewMoney(decimal.NewFromInt(amount))
}

// MustMoney is MoneyFromInt for fixtures; it panics on negative input.
func MustMoney(amount int64) Money {
	m, err := MoneyFromInt(amount)
	if err != nil {
		panic(err)
	}
	return m
}

// MoneyFromString parses a decimal string such as "12.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoney(d)
}

func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

func (m Money) String() string {
	return m.amount.StringFixed(2)
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) IsEqual(other Money) bool {
	return m.amount.Equal(other.amount)
}

func (m Money) GreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other, or an out of range error if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	return NewMoney(m.amount.Sub(other.amount))
}

// Mul returns m multiplied by a non-negative quantity.
func (m Money) Mul(quantity int) (Money, error) {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(quantity))))
}
