package driverrepo

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker lets the unit of work collect saved aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new driver row.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	now := time.Now().UTC()
	dto.CreatedAt, dto.UpdatedAt = now, now

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the driver when the stored version matches.
// Returns ConflictError when a concurrent writer got there first.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&DriverDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.Version()).
		Updates(map[string]any{
			"name":             dto.Name,
			"phone":            dto.Phone,
			"vehicle":          dto.Vehicle,
			"status":           dto.Status,
			"active":           dto.Active,
			"location_lat":     dto.LocationLat,
			"location_lon":     dto.LocationLon,
			"area_id":          dto.AreaID,
			"rating":           dto.Rating,
			"rating_count":     dto.RatingCount,
			"total_deliveries": dto.TotalDeliveries,
			"capacity":         dto.Capacity,
			"updated_at":       time.Now().UTC(),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrStale(ctx, aggregate.ID())
	}

	aggregate.AdvanceVersion()
	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a driver by ID together with its active orders.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a driver and locks its row until the transaction ends.
func (r *GormDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// FindEligible returns the active drivers of an area that can take work, best rated
// first and the least loaded among equals.
func (r *GormDriverRepository) FindEligible(
	ctx context.Context,
	areaID kernel.UUID,
	excludeBusy bool,
) ([]*driver.Driver, error) {
	if err := areaID.Validate(); err != nil {
		return nil, err
	}

	// The stored status can lag behind the orders table, so busy rows are always
	// loaded and the restored status decides.
	statuses := []string{driver.Available.String(), driver.Busy.String()}

	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("area_id = ? AND active AND status IN ?", areaID.Raw(), statuses).
		Order("rating DESC, total_deliveries ASC, id").
		Find(&dtos).Error; err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return []*driver.Driver{}, nil
	}

	active, err := r.activeOrders(ctx, lo.Map(dtos, func(dto DriverDTO, _ int) uuid.UUID { return dto.ID }))
	if err != nil {
		return nil, err
	}

	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, convErr := toDomain(dto, active[dto.ID])
		if convErr != nil {
			return nil, convErr
		}
		if d.Status() == driver.Busy && excludeBusy {
			continue
		}
		drivers = append(drivers, d)
	}

	return drivers, nil
}

func (r *GormDriverRepository) get(ctx context.Context, db *gorm.DB, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := db.First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	active, err := r.activeOrders(ctx, []uuid.UUID{dto.ID})
	if err != nil {
		return nil, err
	}

	return toDomain(dto, active[dto.ID])
}

type activeOrderRow struct {
	DriverID uuid.UUID
	ID       uuid.UUID
}

// activeOrders reads the non-terminal orders held by each of the given drivers.
func (r *GormDriverRepository) activeOrders(
	ctx context.Context,
	driverIDs []uuid.UUID,
) (map[uuid.UUID][]kernel.UUID, error) {
	terminal := []string{order.Delivered.String(), order.Cancelled.String()}

	var rows []activeOrderRow
	if err := r.db.WithContext(ctx).
		Table("orders").
		Select("driver_id, id").
		Where("driver_id IN ? AND status NOT IN ?", driverIDs, terminal).
		Order("created_at, id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID][]kernel.UUID, len(driverIDs))
	for _, row := range rows {
		id, err := kernel.UUIDFromRaw(row.ID)
		if err != nil {
			return nil, err
		}
		result[row.DriverID] = append(result[row.DriverID], id)
	}

	return result, nil
}

func (r *GormDriverRepository) missingOrStale(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&DriverDTO{}).Where("id = ?", id.Raw()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("driver", id.String())
	}
	return errs.NewConflictError("driver", id.String())
}
