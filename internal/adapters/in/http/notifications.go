package http

import (
	"net/http"
	"strconv"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type NotificationResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	ActionURL string         `json:"action_url,omitempty"`
	Icon      string         `json:"icon,omitempty"`
	Priority  string         `json:"priority"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type MarkReadResponse struct {
	Updated bool `json:"updated"`
}

type PushSubscriptionRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type PushSubscriptionResponse struct {
	Subscribed bool `json:"subscribed"`
}

type PushUnsubscribeResponse struct {
	Removed bool `json:"removed"`
}

// ListNotifications handles GET /api/v1/notifications?unread_only=&limit=&offset=
// for the calling user.
func (s *Server) ListNotifications(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	unreadOnly, err := boolParam(c, "unread_only")
	if err != nil {
		return err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return err
	}
	offset, err := intParam(c, "offset")
	if err != nil {
		return err
	}

	query, err := queries.NewListNotificationsQuery(actor.ID, unreadOnly, limit, offset)
	if err != nil {
		return err
	}

	items, err := s.h.ListNotifications.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := make([]NotificationResponse, len(items))
	for i, n := range items {
		response[i] = NotificationResponse{
			ID:        n.ID.String(),
			Type:      n.Type,
			Title:     n.Title,
			Message:   n.Message,
			Data:      n.Data,
			ActionURL: n.ActionURL,
			Icon:      n.Icon,
			Priority:  n.Priority,
			IsRead:    n.ReadAt != nil,
			ReadAt:    n.ReadAt,
			CreatedAt: n.CreatedAt,
		}
	}

	return c.JSON(http.StatusOK, response)
}

// UnreadCount handles GET /api/v1/notifications/unread-count.
func (s *Server) UnreadCount(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	query, err := queries.NewUnreadCountQuery(actor.ID)
	if err != nil {
		return err
	}

	count, err := s.h.UnreadCount.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, UnreadCountResponse{Count: count})
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read. Someone else's
// notification answers updated=false, like a missing one.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	notificationID, err := pathID(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewMarkNotificationReadCommand(notificationID, actor.ID)
	if err != nil {
		return err
	}

	updated, err := s.h.MarkNotificationRead.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MarkReadResponse{Updated: updated})
}

// SubscribePush handles POST /api/v1/push/subscriptions.
func (s *Server) SubscribePush(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req PushSubscriptionRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewSubscribePushCommand(actor.ID, req.Endpoint, notification.Keys{
		P256dh: req.Keys.P256dh,
		Auth:   req.Keys.Auth,
	})
	if err != nil {
		return err
	}

	subscribed, err := s.h.SubscribePush.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, PushSubscriptionResponse{Subscribed: subscribed})
}

// UnsubscribePush handles POST /api/v1/push/subscriptions/remove.
func (s *Server) UnsubscribePush(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}

	var req PushSubscriptionRequest
	if err = c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	cmd, err := commands.NewUnsubscribePushCommand(actor.ID, req.Endpoint)
	if err != nil {
		return err
	}

	removed, err := s.h.UnsubscribePush.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PushUnsubscribeResponse{Removed: removed})
}

func boolParam(c echo.Context, name string) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return v, nil
}
