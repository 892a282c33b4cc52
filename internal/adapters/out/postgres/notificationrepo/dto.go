// Package notificationrepo persists in-app notifications and web push
// subscriptions with gorm.
package notificationrepo

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// NotificationDTO is the "notifications" row. Data is stored as jsonb.
type NotificationDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1"`
	Type      string         `gorm:"type:varchar(32);not null"`
	Title     string         `gorm:"type:varchar(255);not null"`
	Message   string         `gorm:"type:text;not null"`
	Data      map[string]any `gorm:"type:jsonb;serializer:json"`
	ActionURL string         `gorm:"type:text"`
	Icon      string         `gorm:"type:text"`
	Priority  string         `gorm:"type:varchar(16);not null"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"not null;index:idx_notifications_user_created,priority:2"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

// PushSubscriptionDTO is the "push_subscriptions" row. A user has at most one row
// per endpoint.
type PushSubscriptionDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_push_user_endpoint,priority:1"`
	Endpoint  string    `gorm:"type:text;not null;uniqueIndex:idx_push_user_endpoint,priority:2"`
	P256dh    string    `gorm:"column:p256dh;type:text;not null"`
	Auth      string    `gorm:"type:text;not null"`
	Active    bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (PushSubscriptionDTO) TableName() string {
	return "push_subscriptions"
}

func notificationFromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:        n.ID().Raw(),
		UserID:    n.UserID().Raw(),
		Type:      string(n.Type()),
		Title:     n.Title(),
		Message:   n.Message(),
		Data:      n.Data(),
		ActionURL: n.ActionURL(),
		Icon:      n.Icon(),
		Priority:  string(n.Priority()),
		ReadAt:    n.ReadAt(),
		CreatedAt: n.CreatedAt(),
	}
}

func notificationToDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromRaw(dto.UserID)
	if err != nil {
		return nil, err
	}

	var readAt *time.Time
	if dto.ReadAt != nil {
		readAt = lo.ToPtr(dto.ReadAt.UTC())
	}

	return notification.RestoreNotification(
		id, userID,
		notification.Type(dto.Type),
		notification.Content{
			Title:     dto.Title,
			Message:   dto.Message,
			Data:      dto.Data,
			ActionURL: dto.ActionURL,
			Icon:      dto.Icon,
		},
		notification.Priority(dto.Priority),
		readAt,
		dto.CreatedAt.UTC(),
	)
}

func subscriptionFromDomain(s *notification.PushSubscription) PushSubscriptionDTO {
	keys := s.Keys()
	return PushSubscriptionDTO{
		ID:        s.ID().Raw(),
		UserID:    s.UserID().Raw(),
		Endpoint:  s.Endpoint(),
		P256dh:    keys.P256dh,
		Auth:      keys.Auth,
		Active:    s.IsActive(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func subscriptionToDomain(dto PushSubscriptionDTO) (*notification.PushSubscription, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromRaw(dto.UserID)
	if err != nil {
		return nil, err
	}

	return notification.RestorePushSubscription(
		id, userID,
		dto.Endpoint,
		notification.Keys{P256dh: dto.P256dh, Auth: dto.Auth},
		dto.Active,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
	)
}
