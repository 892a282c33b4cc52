package queries

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

const (
	DefaultNotificationPageSize = 50
	MaxNotificationPageSize     = 200
)

var (
	ErrListNotificationsQueryIsNotConstructed = errors.New(
		"ListNotificationsQuery must be created via NewListNotificationsQuery constructor",
	)
	ErrUnreadCountQueryIsNotConstructed = errors.New(
		"UnreadCountQuery must be created via NewUnreadCountQuery constructor",
	)
)

// ListNotificationsQuery pages through a user's in-app notifications, newest first.
type ListNotificationsQuery struct {
	userID     kernel.UUID
	unreadOnly bool
	limit      int
	offset     int

	guard guard.ConstructorGuard
}

// NewListNotificationsQuery builds the query. A zero limit means
// DefaultNotificationPageSize.
func NewListNotificationsQuery(userID kernel.UUID, unreadOnly bool, limit, offset int) (ListNotificationsQuery, error) {
	if limit == 0 {
		limit = DefaultNotificationPageSize
	}

	if err := errors.Join(
		userID.Validate(),
		rangeCheck("limit", limit, 1, MaxNotificationPageSize),
		rangeCheck("offset", offset, 0, nil),
	); err != nil {
		return ListNotificationsQuery{}, err
	}

	return ListNotificationsQuery{
		userID:     userID,
		unreadOnly: unreadOnly,
		limit:      limit,
		offset:     offset,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrListNotificationsQueryIsNotConstructed)
}

func (q ListNotificationsQuery) UserID() kernel.UUID { return q.userID }
func (q ListNotificationsQuery) UnreadOnly() bool    { return q.unreadOnly }
func (q ListNotificationsQuery) Limit() int          { return q.limit }
func (q ListNotificationsQuery) Offset() int         { return q.offset }

type ListNotificationsQueryResponse struct {
	ID        kernel.UUID
	Type      string
	Title     string
	Message   string
	Data      map[string]any
	ActionURL string
	Icon      string
	Priority  string
	ReadAt    *time.Time
	CreatedAt time.Time
}

// UnreadCountQuery counts a user's unread notifications.
type UnreadCountQuery struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

func NewUnreadCountQuery(userID kernel.UUID) (UnreadCountQuery, error) {
	if err := userID.Validate(); err != nil {
		return UnreadCountQuery{}, err
	}
	return UnreadCountQuery{userID: userID, guard: guard.NewConstructorGuard()}, nil
}

func (q UnreadCountQuery) Validate() error {
	return q.guard.Validate(ErrUnreadCountQueryIsNotConstructed)
}

func (q UnreadCountQuery) UserID() kernel.UUID {
	return q.userID
}

func rangeCheck(param string, value, minValue int, maxValue any) error {
	if value < minValue {
		return errs.NewValueIsOutOfRangeError(param, value, minValue, maxValue)
	}
	if maxInt, ok := maxValue.(int); ok && value > maxInt {
		return errs.NewValueIsOutOfRangeError(param, value, minValue, maxValue)
	}
	return nil
}
