package order

import (
	"fmt"
	"slices"

	"orderhub/internal/pkg/errs"
)

// Status is the order's stage in its fulfillment lifecycle.
//
// State transitions:
//
//	Pending ─> Confirmed ─> Preparing ─> Ready ─> OutForDelivery ─> Delivered
//	   │           │            │          │             │
//	   └───────────┴────────────┴──────────┴─────────────┴──> Cancelled
//
// Delivered and Cancelled are terminal: no transition leaves them.
// The table in allowedTransitions is the single source of truth; every status
// change goes through Status.Transition.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a placed order awaiting store confirmation.
	Pending

	// Confirmed means the store accepted the order.
	Confirmed

	// Preparing means the store is preparing the items.
	Preparing

	// Ready means the order is ready for pickup; dispatch starts here.
	Ready

	// OutForDelivery means a driver picked the order up.
	OutForDelivery

	// Delivered is terminal: the customer received the order.
	Delivered

	// Cancelled is terminal: the order will not be fulfilled.
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:        "unknown",
	Pending:        "pending",
	Confirmed:      "confirmed",
	Preparing:      "preparing",
	Ready:          "ready",
	OutForDelivery: "out_for_delivery",
	Delivered:      "delivered",
	Cancelled:      "cancelled",
}

//nolint:exhaustive // Unknown has no outgoing edges and is rejected by Validate
var allowedTransitions = map[Status][]Status{
	Pending:        {Confirmed, Cancelled},
	Confirmed:      {Preparing, Cancelled},
	Preparing:      {Ready, Cancelled},
	Ready:          {OutForDelivery, Cancelled},
	OutForDelivery: {Delivered, Cancelled},
	Delivered:      {},
	Cancelled:      {},
}

// cancellableByAnyone lists the statuses from which a regular actor may cancel.
// Later statuses need an operator override, see CanCancel.
var cancellableByAnyone = []Status{Pending, Confirmed, Preparing}

// ParseStatus converts the persisted or wire name of a status ("out_for_delivery")
// back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Statuses returns every valid status in lifecycle order.
func Statuses() []Status {
	return []Status{Pending, Confirmed, Preparing, Ready, OutForDelivery, Delivered, Cancelled}
}

// Validate checks that s is one of the defined statuses (Unknown is invalid).
func (s Status) Validate() error {
	if _, ok := allowedTransitions[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the snake_case name used for persistence and the wire.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// IsTerminal reports whether no further transition is permitted from s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// AllowedNext returns a copy of the statuses reachable from s in one step.
func (s Status) AllowedNext() []Status {
	return slices.Clone(allowedTransitions[s])
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(allowedTransitions[s], target)
}

// Transition validates the move from s to target.
//
// Returns:
//   - (target, nil) when the edge exists in the adjacency table
//   - (s, InvalidTransitionError) when s is terminal or target is not adjacent
//
// Example:
//
//	next, err := order.Ready.Transition(order.OutForDelivery)
//	// next == order.OutForDelivery, err == nil
//
//	_, err = order.Delivered.Transition(order.Cancelled)
//	// errors.Is(err, errs.ErrInvalidTransition) == true
func (s Status) Transition(target Status) (Status, error) {
	if err := s.Validate(); err != nil {
		return s, errs.NewInvalidTransitionErrorWithCause(s.String(), target.String(), err)
	}
	if s.IsTerminal() {
		return s, errs.NewInvalidTransitionErrorWithCause(s.String(), target.String(), ErrOrderIsTerminal)
	}
	if !s.CanTransitionTo(target) {
		return s, errs.NewInvalidTransitionError(s.String(), target.String())
	}
	return target, nil
}

// CanCancel applies the cancellation policy: anyone may cancel a pending, confirmed
// or preparing order; cancelling a ready or out-for-delivery order requires an
// operator override. Terminal orders can never be cancelled.
func (s Status) CanCancel(override bool) bool {
	if !s.CanTransitionTo(Cancelled) {
		return false
	}
	return override || slices.Contains(cancellableByAnyone, s)
}

// CanHaveDriver reports whether an order in status s may reference a driver.
// A driver is attached at Ready and kept through delivery; a cancelled order keeps
// the reference for audit.
func (s Status) CanHaveDriver() bool {
	return s == Ready || s == OutForDelivery || s == Delivered || s == Cancelled
}
