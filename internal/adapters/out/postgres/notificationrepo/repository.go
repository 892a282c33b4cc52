package notificationrepo

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/notification"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormNotificationRepository implements ports.NotificationRepository.
// Notifications are written outside order transactions, so it works on the pool.
type GormNotificationRepository struct {
	db *gorm.DB
}

func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) Add(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	dto := notificationFromDomain(n)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notification", id.String())
		}
		return nil, err
	}

	return notificationToDomain(dto)
}

// Update writes the read state, the only mutable part of a notification.
func (r *GormNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", n.ID().Raw()).
		Update("read_at", n.ReadAt())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notification", n.ID().String())
	}
	return nil
}

// GormPushSubscriptionRepository implements ports.PushSubscriptionRepository.
type GormPushSubscriptionRepository struct {
	db *gorm.DB
}

func NewGormPushSubscriptionRepository(db *gorm.DB) *GormPushSubscriptionRepository {
	return &GormPushSubscriptionRepository{db: db}
}

func (r *GormPushSubscriptionRepository) Add(ctx context.Context, s *notification.PushSubscription) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := subscriptionFromDomain(s)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes keys and the active flag.
func (r *GormPushSubscriptionRepository) Update(ctx context.Context, s *notification.PushSubscription) error {
	if err := s.Validate(); err != nil {
		return err
	}

	dto := subscriptionFromDomain(s)
	result := r.db.WithContext(ctx).Model(&PushSubscriptionDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"p256dh":     dto.P256dh,
			"auth":       dto.Auth,
			"active":     dto.Active,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("push subscription", s.ID().String())
	}
	return nil
}

func (r *GormPushSubscriptionRepository) GetByEndpoint(
	ctx context.Context,
	userID kernel.UUID,
	endpoint string,
) (*notification.PushSubscription, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto PushSubscriptionDTO
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userID.Raw(), endpoint).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("push subscription", endpoint)
		}
		return nil, err
	}

	return subscriptionToDomain(dto)
}

// ListActiveByUser returns the user's active subscriptions, oldest first.
func (r *GormPushSubscriptionRepository) ListActiveByUser(
	ctx context.Context,
	userID kernel.UUID,
) ([]*notification.PushSubscription, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dtos []PushSubscriptionDTO
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND active", userID.Raw()).
		Order("created_at, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	subs := make([]*notification.PushSubscription, 0, len(dtos))
	for _, dto := range dtos {
		s, err := subscriptionToDomain(dto)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, nil
}
