package ports

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/notification"
)

// ErrSubscriptionGone reports that the push service no longer accepts messages for
// an endpoint. The subscription should be deactivated and never retried.
var ErrSubscriptionGone = errors.New("push subscription is gone")

// PushSender delivers one encrypted payload to one subscription endpoint.
type PushSender interface {
	Send(ctx context.Context, sub *notification.PushSubscription, payload []byte) error
}
