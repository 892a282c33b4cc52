package notification

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")

// Type tags what the notification is about.
type Type string

const (
	TypeOrder       Type = "order"
	TypeDriverOrder Type = "driver_order"
	TypeStoreOrder  Type = "store_order"
	TypeSystem      Type = "system"
)

func (t Type) Validate() error {
	switch t {
	case TypeOrder, TypeDriverOrder, TypeStoreOrder, TypeSystem:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("notification type", fmt.Errorf("%q is not valid", string(t)))
	}
}

// Priority orders notifications in the client and maps to push urgency.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("priority", fmt.Errorf("%q is not valid", string(p)))
	}
}

// Content is what a notification says. It is fixed at creation.
type Content struct {
	Title     string
	Message   string
	Data      map[string]any
	ActionURL string
	Icon      string
}

// Notification is an in-app message for one user. Title, message and data never
// change after creation; only the read state does.
type Notification struct {
	id        kernel.UUID
	userID    kernel.UUID
	typ       Type
	content   Content
	priority  Priority
	readAt    *time.Time
	createdAt time.Time

	isConstructed bool
}

// NewNotification validates and builds a notification for userID.
func NewNotification(
	id, userID kernel.UUID,
	typ Type,
	content Content,
	priority Priority,
	now time.Time,
) (*Notification, error) {
	var errList []error
	errList = append(errList, id.Validate(), userID.Validate(), typ.Validate(), priority.Validate())
	if strings.TrimSpace(content.Title) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("title"))
	}
	if strings.TrimSpace(content.Message) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("message"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	content.Data = maps.Clone(content.Data)

	return &Notification{
		id:            id,
		userID:        userID,
		typ:           typ,
		content:       content,
		priority:      priority,
		createdAt:     now,
		isConstructed: true,
	}, nil
}

// RestoreNotification rebuilds a stored notification.
func RestoreNotification(
	id, userID kernel.UUID,
	typ Type,
	content Content,
	priority Priority,
	readAt *time.Time,
	createdAt time.Time,
) (*Notification, error) {
	n, err := NewNotification(id, userID, typ, content, priority, createdAt)
	if err != nil {
		return nil, fmt.Errorf("restore notification %s: %w", id, err)
	}
	n.readAt = readAt
	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

func (n *Notification) ID() kernel.UUID      { return n.id }
func (n *Notification) UserID() kernel.UUID  { return n.userID }
func (n *Notification) Type() Type           { return n.typ }
func (n *Notification) Title() string        { return n.content.Title }
func (n *Notification) Message() string      { return n.content.Message }
func (n *Notification) ActionURL() string    { return n.content.ActionURL }
func (n *Notification) Icon() string         { return n.content.Icon }
func (n *Notification) Priority() Priority   { return n.priority }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }
func (n *Notification) ReadAt() *time.Time   { return n.readAt }
func (n *Notification) IsRead() bool         { return n.readAt != nil }

// Data returns a copy of the structured payload.
func (n *Notification) Data() map[string]any {
	return maps.Clone(n.content.Data)
}

// MarkRead sets the read timestamp once; later calls keep the first timestamp.
// It reports whether the state changed.
func (n *Notification) MarkRead(now time.Time) bool {
	if n.readAt != nil {
		return false
	}
	n.readAt = &now
	return true
}
