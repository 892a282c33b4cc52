// Package fanout turns domain events into in-app notifications and best-effort web
// push deliveries.
//
// The notification record is the source of truth: it is written first and is kept
// whatever happens to the push attempts that follow. Push attempts never hold an
// order or driver lock and their failures never reach the caller.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/core/ports"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPushTimeout     = 10 * time.Second
	DefaultPushMaxParallel = 8
)

// Outcome classifies one push attempt.
type Outcome string

const (
	OutcomeDelivered Outcome = "delivered"
	OutcomeGone      Outcome = "gone"
	OutcomeTimeout   Outcome = "timeout"
	OutcomeFailed    Outcome = "failed"
)

// DeliveryObserver is told about every push attempt.
type DeliveryObserver interface {
	ObservePush(outcome Outcome, elapsed time.Duration)
}

// Config holds the values rendered into every notification and the push limits.
type Config struct {
	SiteName string
	// Icon is attached to every notification and push payload.
	Icon string
	// PushTimeout bounds a single endpoint attempt.
	PushTimeout time.Duration
	// PushMaxParallel bounds concurrent attempts within one Notify call.
	PushMaxParallel int
}

// Request describes one fan-out. Templates may reference Data keys as {key} and
// the site name as {site}.
type Request struct {
	EventType       notification.Type
	Recipients      []kernel.UUID
	TitleTemplate   string
	MessageTemplate string
	Data            map[string]any
	ActionURL       string
	Priority        notification.Priority
}

// Service creates notification records and pushes them to the recipients' devices.
type Service struct {
	notifications ports.NotificationRepository
	subscriptions ports.PushSubscriptionRepository
	sender        ports.PushSender
	observer      DeliveryObserver
	cfg           Config
	now           func() time.Time
	logger        *slog.Logger
}

func NewService(
	notifications ports.NotificationRepository,
	subscriptions ports.PushSubscriptionRepository,
	sender ports.PushSender,
	observer DeliveryObserver,
	cfg Config,
	logger *slog.Logger,
) *Service {
	if cfg.PushTimeout <= 0 {
		cfg.PushTimeout = DefaultPushTimeout
	}
	if cfg.PushMaxParallel <= 0 {
		cfg.PushMaxParallel = DefaultPushMaxParallel
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		notifications: notifications,
		subscriptions: subscriptions,
		sender:        sender,
		observer:      observer,
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
		logger:        logger.With("component", "notification_fanout"),
	}
}

// Notify creates exactly one notification per distinct recipient and then attempts
// delivery to each active push subscription of those recipients.
//
// Returns the created notifications. The error joins the record persistence
// failures only; a recipient whose record could not be stored gets no push.
func (s *Service) Notify(ctx context.Context, req Request) ([]*notification.Notification, error) {
	if err := errors.Join(req.EventType.Validate(), req.Priority.Validate()); err != nil {
		return nil, err
	}

	content := notification.Content{
		Title:     render(req.TitleTemplate, req.Data, s.cfg.SiteName),
		Message:   render(req.MessageTemplate, req.Data, s.cfg.SiteName),
		Data:      req.Data,
		ActionURL: req.ActionURL,
		Icon:      s.cfg.Icon,
	}

	now := s.now()
	created := make([]*notification.Notification, 0, len(req.Recipients))
	var errList []error

	for _, userID := range lo.Uniq(req.Recipients) {
		n, err := notification.NewNotification(kernel.NewUUID(), userID, req.EventType, content, req.Priority, now)
		if err != nil {
			return nil, err
		}
		if err = s.notifications.Add(ctx, n); err != nil {
			errList = append(errList, fmt.Errorf("store notification for user %s: %w", userID, err))
			continue
		}
		created = append(created, n)
	}

	s.push(ctx, created)

	return created, errors.Join(errList...)
}

type attempt struct {
	sub     *notification.PushSubscription
	payload []byte
}

func (s *Service) push(ctx context.Context, created []*notification.Notification) {
	var attempts []attempt
	for _, n := range created {
		subs, err := s.subscriptions.ListActiveByUser(ctx, n.UserID())
		if err != nil {
			s.logger.WarnContext(ctx, "failed to list push subscriptions",
				slog.String("user_id", n.UserID().String()),
				slog.String("error", err.Error()))
			continue
		}
		if len(subs) == 0 {
			continue
		}

		payload, err := buildPayload(n)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to encode push payload",
				slog.String("notification_id", n.ID().String()),
				slog.String("error", err.Error()))
			continue
		}

		for _, sub := range subs {
			attempts = append(attempts, attempt{sub: sub, payload: payload})
		}
	}

	if len(attempts) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.PushMaxParallel)
	for _, a := range attempts {
		g.Go(func() error {
			s.deliver(ctx, a)
			return nil
		})
	}
	_ = g.Wait()
}

// deliver makes one bounded attempt. Only a gone signal changes state.
func (s *Service) deliver(ctx context.Context, a attempt) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.cfg.PushTimeout)
	defer cancel()

	started := time.Now()
	err := s.sender.Send(attemptCtx, a.sub, a.payload)
	elapsed := time.Since(started)

	log := s.logger.With(
		slog.String("subscription_id", a.sub.ID().String()),
		slog.String("user_id", a.sub.UserID().String()))

	switch {
	case err == nil:
		s.observer.ObservePush(OutcomeDelivered, elapsed)

	case errors.Is(err, ports.ErrSubscriptionGone):
		s.observer.ObservePush(OutcomeGone, elapsed)
		if !a.sub.Deactivate(s.now()) {
			return
		}
		if updateErr := s.subscriptions.Update(ctx, a.sub); updateErr != nil {
			log.ErrorContext(ctx, "failed to deactivate gone push subscription",
				slog.String("error", updateErr.Error()))
			return
		}
		log.InfoContext(ctx, "push subscription deactivated")

	case errors.Is(err, context.DeadlineExceeded):
		s.observer.ObservePush(OutcomeTimeout, elapsed)
		log.WarnContext(ctx, "push delivery timed out", slog.Duration("timeout", s.cfg.PushTimeout))

	default:
		s.observer.ObservePush(OutcomeFailed, elapsed)
		log.WarnContext(ctx, "push delivery failed", slog.String("error", err.Error()))
	}
}

type noopObserver struct{}

func (noopObserver) ObservePush(Outcome, time.Duration) {}
