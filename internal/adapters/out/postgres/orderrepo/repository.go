package orderrepo

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker lets the unit of work collect saved aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the order when the stored version matches and replaces its items.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&OrderDTO{}).
			Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
			Updates(map[string]any{
				"driver_id":                  dto.DriverID,
				"status":                     dto.Status,
				"subtotal":                   dto.Subtotal,
				"delivery_fee":               dto.DeliveryFee,
				"tax":                        dto.Tax,
				"discount":                   dto.Discount,
				"total":                      dto.Total,
				"payment_method":             dto.PaymentMethod,
				"payment_status":             dto.PaymentStatus,
				"address":                    dto.Address,
				"phone":                      dto.Phone,
				"notes":                      dto.Notes,
				"destination_lat":            dto.DestinationLat,
				"destination_lon":            dto.DestinationLon,
				"estimated_delivery_seconds": dto.EstimatedDeliverySeconds,
				"delivered_at":               dto.DeliveredAt,
				"updated_at":                 dto.UpdatedAt,
				"version":                    gorm.Expr("version + 1"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.missingOrStale(tx, aggregate.ID())
		}

		if err := tx.Where("order_id = ?", dto.ID).Delete(&OrderItemDTO{}).Error; err != nil {
			return err
		}
		if len(dto.Items) > 0 {
			return tx.Create(&dto.Items).Error
		}
		return nil
	})
	if err != nil {
		return err
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves an order and locks its row until the transaction ends.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetAwaitingDriver returns ready orders without a driver, the longest waiting first.
func (r *GormOrderRepository) GetAwaitingDriver(ctx context.Context, limit int) ([]*order.Order, error) {
	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Preload("Items", orderItems).
		Where("status = ? AND driver_id IS NULL", order.Ready.String()).
		Order("updated_at, id").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (r *GormOrderRepository) get(db *gorm.DB, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := db.Preload("Items", orderItems).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) missingOrStale(tx *gorm.DB, id kernel.UUID) error {
	var count int64
	if err := tx.Model(&OrderDTO{}).Where("id = ?", id.Raw()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", id.String())
	}
	return errs.NewConflictError("order", id.String())
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
