package driver

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

const (
	// DefaultCapacity is the number of concurrent orders a driver holds under the
	// single-order dispatch policy.
	DefaultCapacity = 1

	MinRating = 1.0
	MaxRating = 5.0
)

var (
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")
	ErrDriverInactive         = errors.New("driver is inactive")
	ErrDriverOffline          = errors.New("driver is offline")
	ErrDriverAtCapacity       = errors.New("driver has no free capacity")
	ErrDriverHasActiveOrders  = errors.New("driver holds active orders")
)

// Driver is the aggregate root for a delivery driver.
//
// Invariants:
//   - status is Busy if and only if the driver holds at least one active order
//   - the number of held orders never exceeds capacity
//   - inactive drivers are never eligible for new assignments
//
// Status changes only through MarkAssigned, Release, CompleteDelivery and the
// driver's own SetAvailability toggle.
type Driver struct {
	id     kernel.UUID
	userID kernel.UUID

	name    string
	phone   string
	vehicle VehicleType

	status   Status
	active   bool
	location *kernel.Location
	areaID   kernel.UUID

	rating          float64
	ratingCount     int
	totalDeliveries int

	capacity     int
	activeOrders []kernel.UUID

	version int

	isConstructed bool
}

// NewDriver registers a driver. New drivers are active and Offline until they
// switch themselves to Available.
//
// Parameters:
//   - id: driver identifier
//   - userID: account that receives the driver's notifications
//   - name, phone: contact info
//   - vehicle: vehicle type
//   - areaID: service area the driver works in
//   - capacity: max concurrent orders (0 means DefaultCapacity)
func NewDriver(
	id, userID kernel.UUID,
	name, phone string,
	vehicle VehicleType,
	areaID kernel.UUID,
	capacity int,
) (*Driver, error) {
	d := &Driver{
		status:        Offline,
		active:        true,
		isConstructed: true,
	}

	if capacity == 0 {
		capacity = DefaultCapacity
	}

	if err := errors.Join(
		d.setID(id),
		d.setUserID(userID),
		d.setName(name),
		d.setPhone(phone),
		d.setVehicle(vehicle),
		d.setAreaID(areaID),
		d.setCapacity(capacity),
	); err != nil {
		return nil, err
	}

	return d, nil
}

// Snapshot is the persisted state of a driver.
type Snapshot struct {
	ID              kernel.UUID
	UserID          kernel.UUID
	Name            string
	Phone           string
	Vehicle         VehicleType
	Status          Status
	Active          bool
	Location        *kernel.Location
	AreaID          kernel.UUID
	Rating          float64
	RatingCount     int
	TotalDeliveries int
	Capacity        int
	ActiveOrders    []kernel.UUID
	Version         int
}

// RestoreDriver rebuilds a driver from storage. ActiveOrders is the authoritative
// set of non-terminal orders referencing the driver; a stored status that
// contradicts it is corrected.
func RestoreDriver(s Snapshot) (*Driver, error) {
	d := &Driver{
		active:          s.Active,
		location:        s.Location,
		rating:          s.Rating,
		ratingCount:     s.RatingCount,
		totalDeliveries: s.TotalDeliveries,
		activeOrders:    slices.Clone(s.ActiveOrders),
		version:         s.Version,
		isConstructed:   true,
	}

	if err := errors.Join(
		d.setID(s.ID),
		d.setUserID(s.UserID),
		d.setName(s.Name),
		d.setPhone(s.Phone),
		d.setVehicle(s.Vehicle),
		d.setAreaID(s.AreaID),
		d.setCapacity(s.Capacity),
		s.Status.Validate(),
	); err != nil {
		return nil, fmt.Errorf("restore driver %s: %w", s.ID, err)
	}

	d.status = s.Status
	d.syncStatus()

	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID            { return d.id }
func (d *Driver) UserID() kernel.UUID        { return d.userID }
func (d *Driver) Name() string               { return d.name }
func (d *Driver) Phone() string              { return d.phone }
func (d *Driver) Vehicle() VehicleType       { return d.vehicle }
func (d *Driver) Status() Status             { return d.status }
func (d *Driver) IsActive() bool             { return d.active }
func (d *Driver) Location() *kernel.Location { return d.location }
func (d *Driver) AreaID() kernel.UUID        { return d.areaID }
func (d *Driver) Rating() float64            { return d.rating }
func (d *Driver) RatingCount() int           { return d.ratingCount }
func (d *Driver) TotalDeliveries() int       { return d.totalDeliveries }
func (d *Driver) Capacity() int              { return d.capacity }
func (d *Driver) Version() int               { return d.version }

// ActiveOrders returns a copy of the orders the driver currently holds.
func (d *Driver) ActiveOrders() []kernel.UUID {
	return slices.Clone(d.activeOrders)
}

// HoldsOrder reports whether orderID is among the driver's active orders.
func (d *Driver) HoldsOrder(orderID kernel.UUID) bool {
	return slices.ContainsFunc(d.activeOrders, orderID.IsEqual)
}

// HasCapacity reports whether the driver can take one more order.
func (d *Driver) HasCapacity() bool {
	return len(d.activeOrders) < d.capacity
}

// IsEligible reports whether the driver may receive a new order in areaID.
// With excludeBusy, only Available drivers qualify; otherwise busy drivers with
// spare capacity qualify too.
func (d *Driver) IsEligible(areaID kernel.UUID, excludeBusy bool) bool {
	if !d.active || !d.areaID.IsEqual(areaID) || !d.HasCapacity() {
		return false
	}
	switch d.status {
	case Available:
		return true
	case Busy:
		return !excludeBusy
	default:
		return false
	}
}

// MarkAssigned records that the driver holds orderID and sets the status to Busy.
//
// Returns:
//   - nil if assigned, or if orderID is already held (idempotent)
//   - ErrDriverInactive, ErrDriverOffline or ErrDriverAtCapacity otherwise;
//     the driver is left unchanged
func (d *Driver) MarkAssigned(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	if d.HoldsOrder(orderID) {
		return nil
	}
	if !d.active {
		return fmt.Errorf("%w: %s", ErrDriverInactive, d.id)
	}
	if d.status == Offline {
		return fmt.Errorf("%w: %s", ErrDriverOffline, d.id)
	}
	if !d.HasCapacity() {
		return fmt.Errorf("%w: %s holds %d of %d", ErrDriverAtCapacity, d.id, len(d.activeOrders), d.capacity)
	}

	d.activeOrders = append(d.activeOrders, orderID)
	d.status = Busy
	return nil
}

// Release drops orderID from the driver's active orders. The driver becomes
// Available only when no other active order remains; releasing an order the driver
// does not hold only re-checks the status.
func (d *Driver) Release(orderID kernel.UUID) {
	d.activeOrders = slices.DeleteFunc(d.activeOrders, orderID.IsEqual)
	d.syncStatus()
}

// CompleteDelivery releases orderID and counts one delivery. Completing an order
// the driver does not hold changes nothing, so repeated calls count once.
func (d *Driver) CompleteDelivery(orderID kernel.UUID) {
	if !d.HoldsOrder(orderID) {
		d.syncStatus()
		return
	}
	d.totalDeliveries++
	d.Release(orderID)
}

// SetAvailability is the driver's own toggle between Available and Offline.
// Going offline while holding orders is rejected; going available while busy is
// a no-op.
func (d *Driver) SetAvailability(available bool) error {
	if available {
		if !d.active {
			return fmt.Errorf("%w: %s", ErrDriverInactive, d.id)
		}
		if d.status == Offline {
			d.status = Available
		}
		return nil
	}

	if len(d.activeOrders) > 0 {
		return fmt.Errorf("%w: %s", ErrDriverHasActiveOrders, d.id)
	}
	d.status = Offline
	return nil
}

// Activate re-enables a driver for dispatch.
func (d *Driver) Activate() {
	d.active = true
}

// Deactivate removes the driver from dispatch. Orders already held are kept so
// they can be delivered or released.
func (d *Driver) Deactivate() {
	d.active = false
}

// UpdateLocation stores the driver's last reported position.
func (d *Driver) UpdateLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = &location
	return nil
}

// Rate folds a customer score into the rolling average rating.
func (d *Driver) Rate(score float64) error {
	if score < MinRating || score > MaxRating || math.IsNaN(score) {
		return errs.NewValueIsOutOfRangeError("rating", score, MinRating, MaxRating)
	}
	d.rating = (d.rating*float64(d.ratingCount) + score) / float64(d.ratingCount+1)
	d.ratingCount++
	return nil
}

// AdvanceVersion is called by persistence after a successful optimistic write.
func (d *Driver) AdvanceVersion() {
	d.version++
}

func (d *Driver) syncStatus() {
	switch {
	case len(d.activeOrders) > 0:
		d.status = Busy
	case d.status == Busy:
		d.status = Available
	}
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}
	d.userID = userID
	return nil
}

func (d *Driver) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	d.name = name
	return nil
}

func (d *Driver) setPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return errs.NewValueIsRequiredError("phone")
	}
	d.phone = phone
	return nil
}

func (d *Driver) setVehicle(vehicle VehicleType) error {
	if err := vehicle.Validate(); err != nil {
		return err
	}
	d.vehicle = vehicle
	return nil
}

func (d *Driver) setAreaID(areaID kernel.UUID) error {
	if err := areaID.Validate(); err != nil {
		return err
	}
	d.areaID = areaID
	return nil
}

func (d *Driver) setCapacity(capacity int) error {
	if capacity < 1 {
		return errs.NewValueIsOutOfRangeError("capacity", capacity, 1, "+inf")
	}
	d.capacity = capacity
	return nil
}
