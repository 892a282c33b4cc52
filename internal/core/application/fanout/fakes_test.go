package fanout_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"orderhub/internal/core/application/fanout"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/pkg/errs"
)

type notificationStore struct {
	mu      sync.Mutex
	items   []*notification.Notification
	failFor map[kernel.UUID]error
}

func newNotificationStore() *notificationStore {
	return &notificationStore{failFor: make(map[kernel.UUID]error)}
}

func (s *notificationStore) Add(_ context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failFor[n.UserID()]; ok {
		return err
	}
	s.items = append(s.items, n)
	return nil
}

func (s *notificationStore) Get(_ context.Context, id kernel.UUID) (*notification.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.items {
		if n.ID().IsEqual(id) {
			return n, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("notificationID", id)
}

func (s *notificationStore) Update(context.Context, *notification.Notification) error { return nil }

func (s *notificationStore) forUser(userID kernel.UUID) []*notification.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*notification.Notification
	for _, n := range s.items {
		if n.UserID().IsEqual(userID) {
			out = append(out, n)
		}
	}
	return out
}

type subscriptionStore struct {
	mu      sync.Mutex
	subs    []*notification.PushSubscription
	updates int
}

func (s *subscriptionStore) Add(_ context.Context, sub *notification.PushSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, sub)
	return nil
}

func (s *subscriptionStore) Update(context.Context, *notification.PushSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	return nil
}

func (s *subscriptionStore) GetByEndpoint(
	_ context.Context,
	userID kernel.UUID,
	endpoint string,
) (*notification.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		if sub.UserID().IsEqual(userID) && sub.Endpoint() == endpoint {
			return sub, nil
		}
	}
	return nil, errs.NewObjectNotFoundError("endpoint", endpoint)
}

func (s *subscriptionStore) ListActiveByUser(
	_ context.Context,
	userID kernel.UUID,
) ([]*notification.PushSubscription, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*notification.PushSubscription
	for _, sub := range s.subs {
		if sub.UserID().IsEqual(userID) && sub.IsActive() {
			out = append(out, sub)
		}
	}
	return out, nil
}

// pushRecorder answers each endpoint with the configured error and records every
// attempt. An endpoint listed in block waits until the attempt's context ends.
type pushRecorder struct {
	mu       sync.Mutex
	results  map[string]error
	block    map[string]bool
	attempts []string
	payloads [][]byte
}

func newPushRecorder() *pushRecorder {
	return &pushRecorder{results: make(map[string]error), block: make(map[string]bool)}
}

func (p *pushRecorder) Send(ctx context.Context, sub *notification.PushSubscription, payload []byte) error {
	p.mu.Lock()
	p.attempts = append(p.attempts, sub.Endpoint())
	p.payloads = append(p.payloads, payload)
	result := p.results[sub.Endpoint()]
	blocked := p.block[sub.Endpoint()]
	p.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	return result
}

func (p *pushRecorder) endpoints() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := slices.Clone(p.attempts)
	slices.Sort(out)
	return out
}

type outcomeRecorder struct {
	mu       sync.Mutex
	outcomes []fanout.Outcome
}

func (o *outcomeRecorder) ObservePush(outcome fanout.Outcome, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *outcomeRecorder) counts() map[fanout.Outcome]int {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[fanout.Outcome]int)
	for _, oc := range o.outcomes {
		out[oc]++
	}
	return out
}

var errPushRejected = errors.New("push service returned 500")
