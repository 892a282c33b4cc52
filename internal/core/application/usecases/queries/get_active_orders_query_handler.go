package queries

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler lists in-flight orders, oldest first.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	stmt := h.db.WithContext(ctx).
		Table("orders").
		Select("id, customer_id, store_id, area_id, driver_id, status, total, address, created_at").
		Where("status NOT IN ?", []string{order.Delivered.String(), order.Cancelled.String()})
	if areaID := query.AreaID(); areaID != nil {
		stmt = stmt.Where("area_id = ?", areaID.Raw())
	}

	rows, err := stmt.Order("created_at, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetActiveOrdersQueryResponse, 0)
	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id, customerID, storeID, areaID uuid.UUID
		var driverID uuid.NullUUID
		var total decimal.Decimal
		var createdAt time.Time

		if err = rows.Scan(&id, &customerID, &storeID, &areaID, &driverID,
			&resp.Status, &total, &resp.Address, &createdAt); err != nil {
			return nil, err
		}

		if resp.ID, err = kernel.UUIDFromRaw(id); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromRaw(customerID); err != nil {
			return nil, err
		}
		if resp.StoreID, err = kernel.UUIDFromRaw(storeID); err != nil {
			return nil, err
		}
		if resp.AreaID, err = kernel.UUIDFromRaw(areaID); err != nil {
			return nil, err
		}
		if driverID.Valid {
			d, idErr := kernel.UUIDFromRaw(driverID.UUID)
			if idErr != nil {
				return nil, idErr
			}
			resp.DriverID = &d
		}
		resp.Total = total.StringFixed(2)
		resp.CreatedAt = createdAt.UTC()

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
