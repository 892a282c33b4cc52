package services

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/order"
)

var (
	// ErrNoEligibleDriver is returned when none of the candidates can take the order.
	// Callers treat it as "leave unassigned", not as a failure.
	ErrNoEligibleDriver = errors.New("no eligible driver")

	// ErrOrderNotDispatchable is returned when the order is no longer ready and
	// unassigned, for example because it was cancelled while dispatch was running.
	ErrOrderNotDispatchable = errors.New("order is not awaiting a driver")
)

// DispatchPolicy tunes driver selection.
type DispatchPolicy struct {
	// ExcludeBusy keeps busy drivers out even when they have spare capacity.
	ExcludeBusy bool

	// MaxRadiusMeters, when positive, drops drivers whose last known position is
	// farther than this from the delivery destination. Drivers or destinations
	// without coordinates are not filtered.
	MaxRadiusMeters float64
}

// DefaultDispatchPolicy is the single-order, area-based policy.
func DefaultDispatchPolicy() DispatchPolicy {
	return DispatchPolicy{ExcludeBusy: true}
}

// OrderDispatcher is a domain service that picks a driver for a ready order and
// applies the assignment to both aggregates.
//
// Selection is greedy and best-effort: among eligible drivers the highest rated
// wins, ties go to the driver with fewer lifetime deliveries (load balancing), then
// to the lowest id so the result is deterministic.
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher(services.DefaultDispatchPolicy())
//	assigned, err := dispatcher.Dispatch(o, candidates, time.Now())
//	if errors.Is(err, services.ErrNoEligibleDriver) {
//	    // leave the order unassigned; the retry job will try again
//	}
type OrderDispatcher struct {
	policy DispatchPolicy
}

// NewOrderDispatcher creates an OrderDispatcher with the given policy.
func NewOrderDispatcher(policy DispatchPolicy) OrderDispatcher {
	return OrderDispatcher{policy: policy}
}

// Policy returns the dispatcher's selection policy.
func (d OrderDispatcher) Policy() DispatchPolicy {
	return d.policy
}

// Dispatch selects the best eligible driver and assigns the order to it.
//
// Parameters:
//   - o: the order; must be Ready and unassigned
//   - candidates: drivers to consider, in any order
//   - now: assignment time
//
// Returns:
//   - *driver.Driver: the assigned driver (now Busy and holding the order)
//   - error: ErrOrderNotDispatchable, ErrNoEligibleDriver, or a validation error.
//     Neither aggregate is modified on error.
func (d OrderDispatcher) Dispatch(o *order.Order, candidates []*driver.Driver, now time.Time) (*driver.Driver, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !o.IsAwaitingDriver() {
		return nil, fmt.Errorf("%w: order %s is %s", ErrOrderNotDispatchable, o.ID(), o.Status())
	}

	ranked, err := d.Rank(o, candidates)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, ErrNoEligibleDriver
	}

	best := ranked[0]
	if err = best.MarkAssigned(o.ID()); err != nil {
		return nil, err
	}
	if err = o.AssignDriver(best.ID(), now); err != nil {
		best.Release(o.ID())
		return nil, err
	}

	return best, nil
}

// Rank filters candidates down to the drivers eligible for o and orders them best
// first. The input slice is not modified.
func (d OrderDispatcher) Rank(o *order.Order, candidates []*driver.Driver) ([]*driver.Driver, error) {
	eligible := make([]*driver.Driver, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsEligible(o.AreaID(), d.policy.ExcludeBusy) {
			continue
		}
		inRange, err := d.withinRadius(o, c)
		if err != nil {
			return nil, err
		}
		if inRange {
			eligible = append(eligible, c)
		}
	}

	SortDrivers(eligible)
	return eligible, nil
}

// SortDrivers orders drivers by rating descending, then total deliveries
// ascending, then id.
func SortDrivers(drivers []*driver.Driver) {
	slices.SortStableFunc(drivers, func(a, b *driver.Driver) int {
		return cmp.Or(
			cmp.Compare(b.Rating(), a.Rating()),
			cmp.Compare(a.TotalDeliveries(), b.TotalDeliveries()),
			cmp.Compare(a.ID().String(), b.ID().String()),
		)
	})
}

func (d OrderDispatcher) withinRadius(o *order.Order, c *driver.Driver) (bool, error) {
	destination := o.Destination().Location
	if d.policy.MaxRadiusMeters <= 0 || destination == nil || c.Location() == nil {
		return true, nil
	}
	return c.Location().WithinRadius(*destination, d.policy.MaxRadiusMeters)
}
