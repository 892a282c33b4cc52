package fanout

import (
	"context"
	"fmt"
	"log/slog"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// Notifier is the fan-out entry point used by EventHandler.
type Notifier interface {
	Notify(ctx context.Context, req Request) ([]*notification.Notification, error)
}

// statusMessages is the customer-facing text for each status an order can enter.
var statusMessages = map[order.Status]struct {
	title    string
	message  string
	priority notification.Priority
}{
	order.Confirmed: {
		"Order confirmed", "{store_name} confirmed your order #{order_ref}.", notification.PriorityNormal},
	order.Preparing: {
		"Order in preparation", "{store_name} is preparing your order #{order_ref}.", notification.PriorityLow},
	order.Ready: {
		"Order ready", "Your order #{order_ref} is ready and waiting for a driver.", notification.PriorityNormal},
	order.OutForDelivery: {
		"Order on its way", "Your order #{order_ref} is out for delivery.", notification.PriorityHigh},
	order.Delivered: {
		"Order delivered", "Your order #{order_ref} was delivered. Thank you for ordering with {site}!",
		notification.PriorityNormal},
	order.Cancelled: {
		"Order cancelled", "Your order #{order_ref} was cancelled.", notification.PriorityHigh},
}

// EventHandler maps order events to recipients:
//   - OrderCreated notifies the customer and the store owner
//   - OrderStatusChanged notifies the customer
//   - DriverAssigned notifies the assigned driver
type EventHandler struct {
	notifier Notifier
	stores   ports.StoreDirectory
	drivers  ports.DriverReader
	logger   *slog.Logger
}

func NewEventHandler(
	notifier Notifier,
	stores ports.StoreDirectory,
	drivers ports.DriverReader,
	logger *slog.Logger,
) *EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventHandler{
		notifier: notifier,
		stores:   stores,
		drivers:  drivers,
		logger:   logger.With("component", "notification_event_handler"),
	}
}

// Handle notifies the recipients of event. Events it does not know are ignored.
func (h *EventHandler) Handle(ctx context.Context, event kernel.DomainEvent) error {
	switch e := event.(type) {
	case order.OrderCreated:
		return h.orderCreated(ctx, e)
	case order.OrderStatusChanged:
		return h.statusChanged(ctx, e)
	case order.DriverAssigned:
		return h.driverAssigned(ctx, e)
	default:
		return nil
	}
}

func (h *EventHandler) orderCreated(ctx context.Context, e order.OrderCreated) error {
	store, err := h.stores.GetStore(ctx, e.StoreID)
	if err != nil {
		return fmt.Errorf("order %s created: load store: %w", e.OrderID, err)
	}

	data := map[string]any{
		"order_id":   e.OrderID.String(),
		"order_ref":  orderRef(e.OrderID),
		"store_name": store.Name,
		"total":      e.Total.String(),
	}

	if _, err = h.notifier.Notify(ctx, Request{
		EventType:       notification.TypeOrder,
		Recipients:      []kernel.UUID{e.CustomerID},
		TitleTemplate:   "Order placed",
		MessageTemplate: "Your order #{order_ref} from {store_name} was placed. Total: {total}.",
		Data:            data,
		ActionURL:       "/orders/" + e.OrderID.String(),
		Priority:        notification.PriorityNormal,
	}); err != nil {
		return fmt.Errorf("order %s created: notify customer: %w", e.OrderID, err)
	}

	if _, err = h.notifier.Notify(ctx, Request{
		EventType:       notification.TypeStoreOrder,
		Recipients:      []kernel.UUID{store.OwnerID},
		TitleTemplate:   "New order",
		MessageTemplate: "New order #{order_ref} for {store_name}. Total: {total}.",
		Data:            data,
		ActionURL:       "/store/orders/" + e.OrderID.String(),
		Priority:        notification.PriorityHigh,
	}); err != nil {
		return fmt.Errorf("order %s created: notify store owner: %w", e.OrderID, err)
	}

	return nil
}

func (h *EventHandler) statusChanged(ctx context.Context, e order.OrderStatusChanged) error {
	text, ok := statusMessages[e.NewStatus]
	if !ok {
		h.logger.DebugContext(ctx, "no customer message for status", slog.String("status", e.NewStatus.String()))
		return nil
	}

	data := map[string]any{
		"order_id":   e.OrderID.String(),
		"order_ref":  orderRef(e.OrderID),
		"old_status": e.OldStatus.String(),
		"new_status": e.NewStatus.String(),
		"store_name": "the store",
	}
	if store, err := h.stores.GetStore(ctx, e.StoreID); err == nil {
		data["store_name"] = store.Name
	} else {
		h.logger.WarnContext(ctx, "store lookup failed, using a generic name",
			slog.String("store_id", e.StoreID.String()),
			slog.String("error", err.Error()))
	}

	if _, err := h.notifier.Notify(ctx, Request{
		EventType:       notification.TypeOrder,
		Recipients:      []kernel.UUID{e.CustomerID},
		TitleTemplate:   text.title,
		MessageTemplate: text.message,
		Data:            data,
		ActionURL:       "/orders/" + e.OrderID.String(),
		Priority:        text.priority,
	}); err != nil {
		return fmt.Errorf("order %s %s: notify customer: %w", e.OrderID, e.NewStatus, err)
	}

	return nil
}

func (h *EventHandler) driverAssigned(ctx context.Context, e order.DriverAssigned) error {
	d, err := h.drivers.Get(ctx, e.DriverID)
	if err != nil {
		return fmt.Errorf("order %s assigned: load driver: %w", e.OrderID, err)
	}

	if _, err = h.notifier.Notify(ctx, Request{
		EventType:       notification.TypeDriverOrder,
		Recipients:      []kernel.UUID{d.UserID()},
		TitleTemplate:   "New delivery",
		MessageTemplate: "Order #{order_ref} is assigned to you. Pick it up as soon as possible.",
		Data: map[string]any{
			"order_id":  e.OrderID.String(),
			"order_ref": orderRef(e.OrderID),
			"driver_id": e.DriverID.String(),
		},
		ActionURL: "/driver/orders/" + e.OrderID.String(),
		Priority:  notification.PriorityUrgent,
	}); err != nil {
		return fmt.Errorf("order %s assigned: notify driver: %w", e.OrderID, err)
	}

	return nil
}

// orderRef is the short reference shown to people.
func orderRef(id kernel.UUID) string {
	return id.String()[:8]
}
