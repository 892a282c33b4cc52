package commands

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"
)

// SubscribePushCommandHandler stores a push subscription. Subscribing an endpoint
// the user already registered refreshes its keys and reactivates it.
type SubscribePushCommandHandler struct {
	subscriptions ports.PushSubscriptionRepository
}

func NewSubscribePushCommandHandler(subscriptions ports.PushSubscriptionRepository) SubscribePushCommandHandler {
	return SubscribePushCommandHandler{subscriptions: subscriptions}
}

// Handle returns true once the subscription is stored and active.
func (h SubscribePushCommandHandler) Handle(ctx context.Context, cmd SubscribePushCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	now := time.Now().UTC()

	existing, err := h.subscriptions.GetByEndpoint(ctx, cmd.UserID(), cmd.Endpoint())
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		sub, newErr := notification.NewPushSubscription(kernel.NewUUID(), cmd.UserID(), cmd.Endpoint(), cmd.Keys(), now)
		if newErr != nil {
			return false, newErr
		}
		if err = h.subscriptions.Add(ctx, sub); err != nil {
			return false, err
		}
		return true, nil
	case err != nil:
		return false, err
	}

	if err = existing.Renew(cmd.Keys(), now); err != nil {
		return false, err
	}
	if err = h.subscriptions.Update(ctx, existing); err != nil {
		return false, err
	}

	return true, nil
}

// UnsubscribePushCommandHandler deactivates a push subscription. The row is kept.
type UnsubscribePushCommandHandler struct {
	subscriptions ports.PushSubscriptionRepository
}

func NewUnsubscribePushCommandHandler(subscriptions ports.PushSubscriptionRepository) UnsubscribePushCommandHandler {
	return UnsubscribePushCommandHandler{subscriptions: subscriptions}
}

// Handle returns false when the user had no active subscription for the endpoint.
func (h UnsubscribePushCommandHandler) Handle(ctx context.Context, cmd UnsubscribePushCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	sub, err := h.subscriptions.GetByEndpoint(ctx, cmd.UserID(), cmd.Endpoint())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !sub.Deactivate(time.Now().UTC()) {
		return false, nil
	}
	if err = h.subscriptions.Update(ctx, sub); err != nil {
		return false, err
	}

	return true, nil
}
