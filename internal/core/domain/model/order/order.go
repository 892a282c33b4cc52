package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not built by NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrOrderIsTerminal is the cause attached to rejections on delivered or cancelled orders.
	ErrOrderIsTerminal = errors.New("order is in a terminal status")

	// ErrDriverRequired is the cause attached when leaving for delivery without a driver.
	ErrDriverRequired = errors.New("order has no assigned driver")

	// ErrCancellationNotAllowed is the cause attached when the cancellation policy
	// rejects a cancel request.
	ErrCancellationNotAllowed = errors.New("cancellation requires operator override at this status")
)

// Order is the aggregate root of a customer's purchase from one store.
//
// Invariants:
//   - total = subtotal + delivery fee + tax - discount, recomputed after every item
//     or monetary mutation, and never negative
//   - at least one line item
//   - once the status is terminal (delivered, cancelled) no item, monetary or status
//     mutation is accepted
//   - a driver is attached only at Ready (by dispatch) and kept afterwards
//   - every successful mutation that other parts of the system react to records a
//     domain event; a rejected mutation leaves the order and its events untouched
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	storeID    kernel.UUID
	areaID     kernel.UUID

	items       []LineItem
	subtotal    kernel.Money
	deliveryFee kernel.Money
	tax         kernel.Money
	discount    kernel.Money
	total       kernel.Money

	paymentStatus PaymentStatus
	paymentMethod PaymentMethod

	destination       Destination
	estimatedDelivery time.Duration

	driverID    *kernel.UUID
	deliveredAt *time.Time
	status      Status

	createdAt time.Time
	updatedAt time.Time
	version   int

	events []kernel.DomainEvent

	isConstructed bool
}

// NewOrder places a new order. This is the only way to create an order.
//
// Parameters:
//   - id: identifier of the new order
//   - placement: customer, store and delivery area references
//   - items: at least one line item; unit prices come from the catalog
//   - charges: store delivery fee, tax and discount (zero values allowed)
//   - destination: address, optional coordinates, contact phone and notes
//   - payment: payment method chosen by the customer
//   - estimatedDelivery: promised delivery duration (store or platform default)
//   - now: placement time
//
// Returns:
//   - *Order: a Pending order with computed totals and a recorded OrderCreated event
//   - error: joined validation errors (errs.IsValidation reports true)
//
// Example:
//
//	item, _ := order.NewLineItem(productID, "Shawarma", 2, kernel.MustMoney(50000))
//	o, err := order.NewOrder(kernel.NewUUID(), placement, []order.LineItem{item},
//	    order.Charges{DeliveryFee: kernel.MustMoney(5000)}, destination,
//	    order.PaymentCash, 45*time.Minute, time.Now())
//	// o.Subtotal() == 100000, o.Total() == 105000, o.Status() == order.Pending
func NewOrder(
	id kernel.UUID,
	placement Placement,
	items []LineItem,
	charges Charges,
	destination Destination,
	payment PaymentMethod,
	estimatedDelivery time.Duration,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		paymentStatus: PaymentPending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setPlacement(placement),
		o.setItems(items),
		o.setDestination(destination),
		o.setPaymentMethod(payment),
		o.setEstimatedDelivery(estimatedDelivery),
	); err != nil {
		return nil, err
	}

	o.deliveryFee = charges.DeliveryFee
	o.tax = charges.Tax
	o.discount = charges.Discount
	if err := o.recalculate(); err != nil {
		return nil, err
	}

	o.record(OrderCreated{
		OrderID:    o.id,
		CustomerID: o.customerID,
		StoreID:    o.storeID,
		Total:      o.total,
		At:         now,
	})

	return o, nil
}

// Snapshot is the persisted state of an order, used to restore the aggregate.
type Snapshot struct {
	ID                kernel.UUID
	Placement         Placement
	Items             []LineItem
	Charges           Charges
	PaymentStatus     PaymentStatus
	PaymentMethod     PaymentMethod
	Destination       Destination
	EstimatedDelivery time.Duration
	DriverID          *kernel.UUID
	DeliveredAt       *time.Time
	Status            Status
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Version           int
}

// RestoreOrder rebuilds an order from storage. Totals are recomputed from the items
// and no events are recorded.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		driverID:          s.DriverID,
		deliveredAt:       s.DeliveredAt,
		estimatedDelivery: s.EstimatedDelivery,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
		version:           s.Version,
		deliveryFee:       s.Charges.DeliveryFee,
		tax:               s.Charges.Tax,
		discount:          s.Charges.Discount,
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setPlacement(s.Placement),
		o.setItems(s.Items),
		o.setPaymentMethod(s.PaymentMethod),
		s.PaymentStatus.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, fmt.Errorf("restore order %s: %w", s.ID, err)
	}

	o.paymentStatus = s.PaymentStatus
	o.status = s.Status
	o.destination = s.Destination

	if o.driverID != nil && !o.status.CanHaveDriver() {
		return nil, errs.NewValueIsInvalidErrorWithCause("driver",
			fmt.Errorf("%s order %s cannot reference a driver", o.status, o.id))
	}

	if err := o.recalculate(); err != nil {
		return nil, fmt.Errorf("restore order %s: %w", s.ID, err)
	}

	return o, nil
}

// Validate ensures the order was created through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID           { return o.id }
func (o *Order) CustomerID() kernel.UUID   { return o.customerID }
func (o *Order) StoreID() kernel.UUID      { return o.storeID }
func (o *Order) AreaID() kernel.UUID       { return o.areaID }
func (o *Order) Subtotal() kernel.Money    { return o.subtotal }
func (o *Order) DeliveryFee() kernel.Money { return o.deliveryFee }
func (o *Order) Tax() kernel.Money         { return o.tax }
func (o *Order) Discount() kernel.Money    { return o.discount }
func (o *Order) Total() kernel.Money       { return o.total }
func (o *Order) Status() Status            { return o.status }
func (o *Order) CreatedAt() time.Time      { return o.createdAt }
func (o *Order) UpdatedAt() time.Time      { return o.updatedAt }
func (o *Order) Version() int              { return o.version }

func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) EstimatedDelivery() time.Duration {
	return o.estimatedDelivery
}

// Items returns a copy of the line items.
func (o *Order) Items() []LineItem {
	return slices.Clone(o.items)
}

// Destination returns the delivery destination.
func (o *Order) Destination() Destination {
	return o.destination
}

// Driver returns the assigned driver or nil.
func (o *Order) Driver() *kernel.UUID {
	return o.driverID
}

// DeliveredAt returns when the order reached Delivered, or nil.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// IsAwaitingDriver reports whether dispatch should try to assign this order.
func (o *Order) IsAwaitingDriver() bool {
	return o.status == Ready && o.driverID == nil
}

// Transition moves the order to target on behalf of actor.
//
// Business rules:
//   - target must be adjacent to the current status in the adjacency table
//   - terminal orders reject every transition
//   - OutForDelivery requires an assigned driver
//   - Delivered stamps DeliveredAt with now
//
// Returns:
//   - nil on success; exactly one OrderStatusChanged event is recorded
//   - InvalidTransitionError otherwise; the order is left unchanged
//
// Releasing the driver of a cancelled order is a cross-aggregate change done by the
// use case in the same transaction.
func (o *Order) Transition(target Status, actor Actor, now time.Time) error {
	next, err := o.status.Transition(target)
	if err != nil {
		return err
	}

	if next == OutForDelivery && o.driverID == nil {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), next.String(), ErrDriverRequired)
	}

	old := o.status
	o.status = next
	o.updatedAt = now
	if next == Delivered {
		deliveredAt := now
		o.deliveredAt = &deliveredAt
	}

	o.record(OrderStatusChanged{
		OrderID:    o.id,
		CustomerID: o.customerID,
		StoreID:    o.storeID,
		DriverID:   o.driverID,
		OldStatus:  old,
		NewStatus:  next,
		Actor:      actor,
		At:         now,
	})

	return nil
}

// Cancel is Transition(Cancelled) guarded by the cancellation policy: allowed while
// Pending, Confirmed or Preparing; Ready and OutForDelivery need an operator.
func (o *Order) Cancel(actor Actor, now time.Time) error {
	if o.status.IsTerminal() {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), Cancelled.String(), ErrOrderIsTerminal)
	}
	if !o.status.CanCancel(actor.CanOverrideCancellation()) {
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), Cancelled.String(), ErrCancellationNotAllowed)
	}
	return o.Transition(Cancelled, actor, now)
}

// AssignDriver attaches a driver selected by dispatch.
//
// The order must be Ready and unassigned. Assigning the same driver again is a
// no-op; a different driver is rejected so a stale dispatch attempt cannot replace
// an existing assignment.
func (o *Order) AssignDriver(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if o.driverID != nil {
		if o.driverID.IsEqual(driverID) {
			return nil
		}
		return errs.NewValueIsInvalidErrorWithCause("driver",
			fmt.Errorf("order %s already assigned to driver %s", o.id, o.driverID))
	}
	if o.status != Ready {
		cause := fmt.Errorf("cannot assign a driver while %s", o.status)
		if o.status.IsTerminal() {
			cause = ErrOrderIsTerminal
		}
		return errs.NewInvalidTransitionErrorWithCause(o.status.String(), o.status.String(), cause)
	}

	o.driverID = &driverID
	o.updatedAt = now
	o.record(DriverAssigned{
		OrderID:    o.id,
		DriverID:   driverID,
		CustomerID: o.customerID,
		StoreID:    o.storeID,
		At:         now,
	})

	return nil
}

// AddItem adds a line, merging the quantity into an existing line for the same product.
func (o *Order) AddItem(item LineItem, now time.Time) error {
	if err := errors.Join(o.ensureMutable(), item.Validate()); err != nil {
		return err
	}

	items := slices.Clone(o.items)
	idx := slices.IndexFunc(items, func(existing LineItem) bool {
		return existing.productID.IsEqual(item.productID)
	})
	if idx >= 0 {
		merged, err := items[idx].withQuantity(items[idx].quantity + item.quantity)
		if err != nil {
			return err
		}
		items[idx] = merged
	} else {
		items = append(items, item)
	}

	return o.applyItems(items, now)
}

// RemoveItem drops the line for productID. The last line cannot be removed; cancel
// the order instead.
func (o *Order) RemoveItem(productID kernel.UUID, now time.Time) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}

	items := slices.DeleteFunc(slices.Clone(o.items), func(existing LineItem) bool {
		return existing.productID.IsEqual(productID)
	})
	if len(items) == len(o.items) {
		return errs.NewObjectNotFoundError("productID", productID.String())
	}
	if len(items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("an order keeps at least one item"))
	}

	return o.applyItems(items, now)
}

// ApplyDiscount replaces the discount. The resulting total may not be negative.
func (o *Order) ApplyDiscount(discount kernel.Money, now time.Time) error {
	return o.AdjustCharges(o.tax, discount, now)
}

// SetTax replaces the tax amount.
func (o *Order) SetTax(tax kernel.Money, now time.Time) error {
	return o.AdjustCharges(tax, o.discount, now)
}

// AdjustCharges replaces tax and discount in one step, so a pair that is only
// valid together is not rejected halfway. On error the previous charges are kept.
func (o *Order) AdjustCharges(tax, discount kernel.Money, now time.Time) error {
	if err := o.ensureMutable(); err != nil {
		return err
	}

	previousTax, previousDiscount := o.tax, o.discount
	o.tax, o.discount = tax, discount
	if err := o.recalculate(); err != nil {
		o.tax, o.discount = previousTax, previousDiscount
		_ = o.recalculate()
		return err
	}
	o.updatedAt = now
	return nil
}

// MarkPaid records a successful payment reported by the payment collaborator.
func (o *Order) MarkPaid(now time.Time) error {
	return o.setPaymentStatus(PaymentPaid, now)
}

// MarkPaymentFailed records a failed payment.
func (o *Order) MarkPaymentFailed(now time.Time) error {
	return o.setPaymentStatus(PaymentFailed, now)
}

// DomainEvents returns the events recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return slices.Clone(o.events)
}

// ClearDomainEvents drops recorded events once they have been handed to a publisher.
func (o *Order) ClearDomainEvents() {
	o.events = nil
}

// AdvanceVersion is called by persistence after a successful optimistic write.
func (o *Order) AdvanceVersion() {
	o.version++
}

func (o *Order) record(event kernel.DomainEvent) {
	o.events = append(o.events, event)
}

func (o *Order) ensureMutable() error {
	if o.status.IsTerminal() {
		return errs.NewValueIsInvalidErrorWithCause("order", ErrOrderIsTerminal)
	}
	return nil
}

func (o *Order) applyItems(items []LineItem, now time.Time) error {
	previous := o.items
	o.items = items
	if err := o.recalculate(); err != nil {
		o.items = previous
		_ = o.recalculate()
		return err
	}
	o.updatedAt = now
	return nil
}

// recalculate enforces total = subtotal + delivery fee + tax - discount.
func (o *Order) recalculate() error {
	subtotal := kernel.ZeroMoney
	for _, item := range o.items {
		subtotal = subtotal.Add(item.LineTotal())
	}

	gross := subtotal.Add(o.deliveryFee).Add(o.tax)
	total, err := gross.Sub(o.discount)
	if err != nil {
		return errs.NewValueIsOutOfRangeErrorWithCause("discount", o.discount.String(), 0, gross.String(), err)
	}

	o.subtotal = subtotal
	o.total = total
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setPlacement(p Placement) error {
	if err := p.Validate(); err != nil {
		return err
	}
	o.customerID = p.CustomerID
	o.storeID = p.StoreID
	o.areaID = p.AreaID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}

	var errList []error
	for _, item := range items {
		errList = append(errList, item.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setDestination(d Destination) error {
	if err := d.Validate(); err != nil {
		return err
	}
	o.destination = d
	return nil
}

func (o *Order) setPaymentMethod(m PaymentMethod) error {
	if err := m.Validate(); err != nil {
		return err
	}
	o.paymentMethod = m
	return nil
}

func (o *Order) setEstimatedDelivery(d time.Duration) error {
	if d < 0 {
		return errs.NewValueIsOutOfRangeError("estimated delivery", d.String(), 0, "+inf")
	}
	o.estimatedDelivery = d
	return nil
}

func (o *Order) setPaymentStatus(s PaymentStatus, now time.Time) error {
	if o.status == Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("payment status", ErrOrderIsTerminal)
	}
	o.paymentStatus = s
	o.updatedAt = now
	return nil
}
