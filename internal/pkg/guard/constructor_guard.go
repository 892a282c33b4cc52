// Package guard holds the constructor guard used by aggregates, value objects,
// commands and queries to reject zero-value instances.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller passes a nil error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard marks a struct as built by its constructor. Embed it as a private
// field, set it with NewConstructorGuard in the constructor and check it in Validate:
//
//	type AssignDriverCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func (c AssignDriverCommand) Validate() error {
//	    return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard in the constructed state.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the owning value was not created through its constructor.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
