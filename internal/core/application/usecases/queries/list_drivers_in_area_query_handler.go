package queries

import (
	"context"
	"database/sql"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListDriversInAreaQueryHandler reads drivers straight from the database, ranked
// the way dispatch ranks them.
type ListDriversInAreaQueryHandler struct {
	db *gorm.DB
}

func NewListDriversInAreaQueryHandler(db *gorm.DB) ListDriversInAreaQueryHandler {
	return ListDriversInAreaQueryHandler{db: db}
}

func (h ListDriversInAreaQueryHandler) Handle(
	ctx context.Context,
	query ListDriversInAreaQuery,
) ([]ListDriversInAreaQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.name,
			d.phone,
			d.vehicle,
			d.status,
			d.rating,
			d.total_deliveries,
			d.capacity,
			d.location_lat,
			d.location_lon,
			(SELECT COUNT(*) FROM orders o
				WHERE o.driver_id = d.id AND o.status NOT IN (?, ?)) AS active_orders
		FROM drivers d
		WHERE d.area_id = ? AND d.active
		ORDER BY d.rating DESC, d.total_deliveries ASC, d.id
	`, order.Delivered.String(), order.Cancelled.String(), query.AreaID().Raw()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := make([]ListDriversInAreaQueryResponse, 0)
	for rows.Next() {
		var resp ListDriversInAreaQueryResponse
		var id uuid.UUID
		var lat, lon sql.NullFloat64

		if err = rows.Scan(
			&id,
			&resp.Name,
			&resp.Phone,
			&resp.Vehicle,
			&resp.Status,
			&resp.Rating,
			&resp.TotalDeliveries,
			&resp.Capacity,
			&lat,
			&lon,
			&resp.ActiveOrders,
		); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromRaw(id); err != nil {
			return nil, err
		}
		if resp.Location, err = locationFrom(lat, lon); err != nil {
			return nil, err
		}

		drivers = append(drivers, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return drivers, nil
}

func locationFrom(lat, lon sql.NullFloat64) (*kernel.Location, error) {
	if !lat.Valid || !lon.Valid {
		return nil, nil
	}
	loc, err := kernel.NewLocation(lat.Float64, lon.Float64)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
