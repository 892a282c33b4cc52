package commands

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// MarkNotificationReadCommandHandler marks one of the user's notifications as read.
type MarkNotificationReadCommandHandler struct {
	notifications ports.NotificationRepository
}

func NewMarkNotificationReadCommandHandler(notifications ports.NotificationRepository) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{notifications: notifications}
}

// Handle returns false when the notification does not exist or belongs to another
// user. Marking an already read notification succeeds and keeps the first read time.
func (h MarkNotificationReadCommandHandler) Handle(ctx context.Context, cmd MarkNotificationReadCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	n, err := h.notifications.Get(ctx, cmd.NotificationID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !n.UserID().IsEqual(cmd.UserID()) {
		return false, nil
	}

	if n.MarkRead(time.Now().UTC()) {
		if err = h.notifications.Update(ctx, n); err != nil {
			return false, err
		}
	}

	return true, nil
}
