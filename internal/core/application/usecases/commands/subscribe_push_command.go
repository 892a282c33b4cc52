package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var (
	ErrSubscribePushCommandIsNotConstructed = errors.New(
		"SubscribePushCommand must be created via NewSubscribePushCommand constructor",
	)
	ErrUnsubscribePushCommandIsNotConstructed = errors.New(
		"UnsubscribePushCommand must be created via NewUnsubscribePushCommand constructor",
	)
)

// SubscribePushCommand registers a browser push endpoint for a user.
type SubscribePushCommand struct {
	userID   kernel.UUID
	endpoint string
	keys     notification.Keys

	guard guard.ConstructorGuard
}

func NewSubscribePushCommand(userID kernel.UUID, endpoint string, keys notification.Keys) (SubscribePushCommand, error) {
	if err := errors.Join(userID.Validate(), requireEndpoint(endpoint), keys.Validate()); err != nil {
		return SubscribePushCommand{}, err
	}

	return SubscribePushCommand{
		userID:   userID,
		endpoint: endpoint,
		keys:     keys,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c SubscribePushCommand) Validate() error {
	return c.guard.Validate(ErrSubscribePushCommandIsNotConstructed)
}

func (c SubscribePushCommand) UserID() kernel.UUID     { return c.userID }
func (c SubscribePushCommand) Endpoint() string        { return c.endpoint }
func (c SubscribePushCommand) Keys() notification.Keys { return c.keys }

// UnsubscribePushCommand deactivates one of a user's push endpoints.
type UnsubscribePushCommand struct {
	userID   kernel.UUID
	endpoint string

	guard guard.ConstructorGuard
}

func NewUnsubscribePushCommand(userID kernel.UUID, endpoint string) (UnsubscribePushCommand, error) {
	if err := errors.Join(userID.Validate(), requireEndpoint(endpoint)); err != nil {
		return UnsubscribePushCommand{}, err
	}

	return UnsubscribePushCommand{
		userID:   userID,
		endpoint: endpoint,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UnsubscribePushCommand) Validate() error {
	return c.guard.Validate(ErrUnsubscribePushCommandIsNotConstructed)
}

func (c UnsubscribePushCommand) UserID() kernel.UUID { return c.userID }
func (c UnsubscribePushCommand) Endpoint() string    { return c.endpoint }

func requireEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return errs.NewValueIsRequiredError("endpoint")
	}
	return nil
}
