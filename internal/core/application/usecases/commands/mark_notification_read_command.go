package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

type MarkNotificationReadCommand struct {
	notificationID kernel.UUID
	userID         kernel.UUID

	guard guard.ConstructorGuard
}

func NewMarkNotificationReadCommand(notificationID, userID kernel.UUID) (MarkNotificationReadCommand, error) {
	if err := errors.Join(notificationID.Validate(), userID.Validate()); err != nil {
		return MarkNotificationReadCommand{}, err
	}

	return MarkNotificationReadCommand{
		notificationID: notificationID,
		userID:         userID,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

func (c MarkNotificationReadCommand) NotificationID() kernel.UUID { return c.notificationID }
func (c MarkNotificationReadCommand) UserID() kernel.UUID         { return c.userID }
