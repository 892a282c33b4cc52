package notification

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

var ErrPushSubscriptionIsNotConstructed = errors.New(
	"PushSubscription must be created via NewPushSubscription constructor")

// Keys is the key material the browser hands out with a subscription. Both values
// are opaque base64url strings used to encrypt the payload.
type Keys struct {
	P256dh string
	Auth   string
}

func (k Keys) Validate() error {
	var errList []error
	if strings.TrimSpace(k.P256dh) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("p256dh"))
	}
	if strings.TrimSpace(k.Auth) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("auth"))
	}
	return errors.Join(errList...)
}

// PushSubscription is one browser or device endpoint of a user. Subscriptions the
// push service reports as gone are deactivated, never deleted, so they keep their
// audit history and are not attempted again.
type PushSubscription struct {
	id        kernel.UUID
	userID    kernel.UUID
	endpoint  string
	keys      Keys
	active    bool
	createdAt time.Time
	updatedAt time.Time

	isConstructed bool
}

// NewPushSubscription validates the endpoint URL and key material.
func NewPushSubscription(id, userID kernel.UUID, endpoint string, keys Keys, now time.Time) (*PushSubscription, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), validateEndpoint(endpoint), keys.Validate()); err != nil {
		return nil, err
	}

	return &PushSubscription{
		id:            id,
		userID:        userID,
		endpoint:      endpoint,
		keys:          keys,
		active:        true,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}, nil
}

// RestorePushSubscription rebuilds a stored subscription.
func RestorePushSubscription(
	id, userID kernel.UUID,
	endpoint string,
	keys Keys,
	active bool,
	createdAt, updatedAt time.Time,
) (*PushSubscription, error) {
	s, err := NewPushSubscription(id, userID, endpoint, keys, createdAt)
	if err != nil {
		return nil, fmt.Errorf("restore push subscription %s: %w", id, err)
	}
	s.active = active
	s.updatedAt = updatedAt
	return s, nil
}

func (s *PushSubscription) Validate() error {
	if s == nil || !s.isConstructed {
		return ErrPushSubscriptionIsNotConstructed
	}
	return nil
}

func (s *PushSubscription) ID() kernel.UUID      { return s.id }
func (s *PushSubscription) UserID() kernel.UUID  { return s.userID }
func (s *PushSubscription) Endpoint() string     { return s.endpoint }
func (s *PushSubscription) Keys() Keys           { return s.keys }
func (s *PushSubscription) IsActive() bool       { return s.active }
func (s *PushSubscription) CreatedAt() time.Time { return s.createdAt }
func (s *PushSubscription) UpdatedAt() time.Time { return s.updatedAt }

// Deactivate stops delivery to this endpoint. It reports whether the state changed.
func (s *PushSubscription) Deactivate(now time.Time) bool {
	if !s.active {
		return false
	}
	s.active = false
	s.updatedAt = now
	return true
}

// Renew replaces the key material and reactivates the subscription; browsers
// re-subscribe the same endpoint with fresh keys.
func (s *PushSubscription) Renew(keys Keys, now time.Time) error {
	if err := keys.Validate(); err != nil {
		return err
	}
	s.keys = keys
	s.active = true
	s.updatedAt = now
	return nil
}

func validateEndpoint(endpoint string) error {
	if strings.TrimSpace(endpoint) == "" {
		return errs.NewValueIsRequiredError("endpoint")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("endpoint", err)
	}
	if (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return errs.NewValueIsInvalidErrorWithCause("endpoint", fmt.Errorf("%q is not an absolute http(s) URL", endpoint))
	}
	return nil
}
