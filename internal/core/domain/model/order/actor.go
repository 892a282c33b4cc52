package order

import (
	"fmt"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

// Role is the capacity in which an actor requests an order change.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleStoreOwner Role = "store_owner"
	RoleDriver     Role = "driver"
	RoleOperator   Role = "operator"
	RoleSystem     Role = "system"
)

// Actor identifies who requested a status change. Authentication happens outside
// the domain; the actor is recorded on emitted events.
type Actor struct {
	ID   kernel.UUID
	Role Role
}

// NewActor validates the identifier and role.
func NewActor(id kernel.UUID, role Role) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if err := role.Validate(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: id, Role: role}, nil
}

// SystemActor is used for changes triggered by the platform itself (dispatch, jobs).
func SystemActor() Actor {
	return Actor{ID: systemActorID, Role: RoleSystem}
}

var systemActorID = kernel.MustUUID("00000000-0000-4000-8000-000000000001")

func (r Role) Validate() error {
	switch r {
	case RoleCustomer, RoleStoreOwner, RoleDriver, RoleOperator, RoleSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", string(r)))
	}
}

// CanOverrideCancellation reports whether the actor may cancel beyond the regular
// cancellation window.
func (a Actor) CanOverrideCancellation() bool {
	return a.Role == RoleOperator
}
