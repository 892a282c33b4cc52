package events

import (
	"encoding/json"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// Envelope is the wire form of a domain event.
type Envelope struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	AggregateID string         `json:"aggregate_id"`
	OccurredAt  time.Time      `json:"occurred_at"`
	Payload     map[string]any `json:"payload"`
}

// NewEnvelope assigns the event a fresh id. Unknown event types get an empty payload.
func NewEnvelope(event kernel.DomainEvent) Envelope {
	return Envelope{
		ID:          kernel.NewUUID().String(),
		Name:        event.EventName(),
		AggregateID: event.AggregateID().String(),
		OccurredAt:  event.OccurredAt().UTC(),
		Payload:     payloadOf(event),
	}
}

func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

func payloadOf(event kernel.DomainEvent) map[string]any {
	switch e := event.(type) {
	case order.OrderCreated:
		return map[string]any{
			"customer_id": e.CustomerID.String(),
			"store_id":    e.StoreID.String(),
			"total":       e.Total.String(),
		}
	case order.OrderStatusChanged:
		p := map[string]any{
			"customer_id": e.CustomerID.String(),
			"store_id":    e.StoreID.String(),
			"old_status":  e.OldStatus.String(),
			"new_status":  e.NewStatus.String(),
			"actor_role":  string(e.Actor.Role),
		}
		if !e.Actor.ID.IsZero() {
			p["actor_id"] = e.Actor.ID.String()
		}
		if e.DriverID != nil {
			p["driver_id"] = e.DriverID.String()
		}
		return p
	case order.DriverAssigned:
		return map[string]any{
			"customer_id": e.CustomerID.String(),
			"store_id":    e.StoreID.String(),
			"driver_id":   e.DriverID.String(),
		}
	default:
		return map[string]any{}
	}
}
