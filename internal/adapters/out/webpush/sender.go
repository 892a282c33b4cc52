// Package webpush delivers encrypted Web Push messages (RFC 8291) signed with the
// application's VAPID key pair.
package webpush

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/core/ports"

	webpushgo "github.com/SherClockHolmes/webpush-go"
)

// DefaultTTL is how long the push service keeps an undelivered message, in seconds.
const DefaultTTL = 24 * 60 * 60

var ErrVAPIDKeysRequired = errors.New("VAPID public and private keys are required")

type Config struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	// Subject is the contact address the push service may use, an email or https URL.
	Subject string
	TTL     int
}

// Sender is the ports.PushSender backed by github.com/SherClockHolmes/webpush-go.
type Sender struct {
	cfg    Config
	client *http.Client
}

var _ ports.PushSender = (*Sender)(nil)

// NewSender validates the key pair. A nil client means http.DefaultClient.
func NewSender(cfg Config, client *http.Client) (*Sender, error) {
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, ErrVAPIDKeysRequired
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	// the library adds the mailto: scheme itself
	cfg.Subject = strings.TrimPrefix(cfg.Subject, "mailto:")
	if client == nil {
		client = http.DefaultClient
	}

	return &Sender{cfg: cfg, client: client}, nil
}

// Send encrypts payload for sub and posts it to the subscription endpoint.
//
// Returns:
//   - nil when the push service accepted the message
//   - an error wrapping ports.ErrSubscriptionGone for 404 and 410 responses
//   - any other error for transport failures and remaining non-2xx responses
func (s *Sender) Send(ctx context.Context, sub *notification.PushSubscription, payload []byte) error {
	keys := sub.Keys()

	resp, err := webpushgo.SendNotificationWithContext(ctx, payload, &webpushgo.Subscription{
		Endpoint: sub.Endpoint(),
		Keys: webpushgo.Keys{
			P256dh: keys.P256dh,
			Auth:   keys.Auth,
		},
	}, &webpushgo.Options{
		HTTPClient:      s.client,
		Subscriber:      s.cfg.Subject,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             s.cfg.TTL,
		Urgency:         webpushgo.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("send push to %s: %w", sub.ID(), err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return fmt.Errorf("push service answered %d for %s: %w", resp.StatusCode, sub.ID(), ports.ErrSubscriptionGone)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("push service answered %d for %s", resp.StatusCode, sub.ID())
	default:
		return nil
	}
}

// NoopSender accepts every message without sending it. Used when no VAPID keys
// are configured.
type NoopSender struct {
	logger *slog.Logger
}

var _ ports.PushSender = NoopSender{}

func NewNoopSender(logger *slog.Logger) NoopSender {
	if logger == nil {
		logger = slog.Default()
	}
	return NoopSender{logger: logger.With("component", "noop_push_sender")}
}

func (s NoopSender) Send(ctx context.Context, sub *notification.PushSubscription, _ []byte) error {
	s.logger.DebugContext(ctx, "web push disabled, skipping",
		slog.String("subscription_id", sub.ID().String()))
	return nil
}
