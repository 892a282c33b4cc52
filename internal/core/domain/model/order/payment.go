package order

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// PaymentMethod is how the customer pays. Processing itself is external.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentWallet PaymentMethod = "wallet"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentCash, PaymentCard, PaymentWallet:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(m)))
	}
}

// PaymentStatus tracks the outcome reported by the payment collaborator.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Validate() error {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not valid", string(s)))
	}
}
