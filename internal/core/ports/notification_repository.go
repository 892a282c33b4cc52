package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
)

type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error

	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// Update persists the read state.
	Update(ctx context.Context, n *notification.Notification) error
}

type PushSubscriptionRepository interface {
	Add(ctx context.Context, s *notification.PushSubscription) error

	Update(ctx context.Context, s *notification.PushSubscription) error

	// GetByEndpoint returns the user's subscription for endpoint, active or not,
	// or an errs.ObjectNotFoundError.
	GetByEndpoint(ctx context.Context, userID kernel.UUID, endpoint string) (*notification.PushSubscription, error)

	ListActiveByUser(ctx context.Context, userID kernel.UUID) ([]*notification.PushSubscription, error)
}
