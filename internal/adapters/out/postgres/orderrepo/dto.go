// Package orderrepo persists order aggregates with gorm. An order maps to one row
// in "orders" plus its lines in "order_items".
package orderrepo

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OrderDTO is the "orders" row.
type OrderDTO struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CustomerID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	StoreID                  uuid.UUID       `gorm:"type:uuid;not null;index"`
	AreaID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DriverID                 *uuid.UUID      `gorm:"type:uuid;index"`
	Status                   string          `gorm:"type:varchar(32);not null;index"`
	Subtotal                 decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	DeliveryFee              decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Tax                      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Discount                 decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total                    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PaymentMethod            string          `gorm:"type:varchar(16);not null"`
	PaymentStatus            string          `gorm:"type:varchar(16);not null"`
	Address                  string          `gorm:"type:text;not null"`
	Phone                    string          `gorm:"type:varchar(32);not null"`
	Notes                    string          `gorm:"type:text"`
	DestinationLat           *float64
	DestinationLon           *float64
	EstimatedDeliverySeconds int64
	DeliveredAt              *time.Time
	CreatedAt                time.Time `gorm:"not null"`
	UpdatedAt                time.Time `gorm:"not null"`
	Version                  int       `gorm:"not null;default:0"`
	Items                    []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is one "order_items" row. Position keeps the line order stable.
type OrderItemDTO struct {
	OrderID   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position  int             `gorm:"primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(14,2);not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Raw()
	dest := o.Destination()

	dto := OrderDTO{
		ID:                       id,
		CustomerID:               o.CustomerID().Raw(),
		StoreID:                  o.StoreID().Raw(),
		AreaID:                   o.AreaID().Raw(),
		Status:                   o.Status().String(),
		Subtotal:                 o.Subtotal().Decimal(),
		DeliveryFee:              o.DeliveryFee().Decimal(),
		Tax:                      o.Tax().Decimal(),
		Discount:                 o.Discount().Decimal(),
		Total:                    o.Total().Decimal(),
		PaymentMethod:            string(o.PaymentMethod()),
		PaymentStatus:            string(o.PaymentStatus()),
		Address:                  dest.Address,
		Phone:                    dest.Phone,
		Notes:                    dest.Notes,
		EstimatedDeliverySeconds: int64(o.EstimatedDelivery() / time.Second),
		DeliveredAt:              o.DeliveredAt(),
		CreatedAt:                o.CreatedAt(),
		UpdatedAt:                o.UpdatedAt(),
		Version:                  o.Version(),
	}

	if driverID := o.Driver(); driverID != nil {
		dto.DriverID = lo.ToPtr(driverID.Raw())
	}
	if loc := dest.Location; loc != nil {
		dto.DestinationLat = lo.ToPtr(loc.Latitude())
		dto.DestinationLon = lo.ToPtr(loc.Longitude())
	}

	dto.Items = lo.Map(o.Items(), func(item order.LineItem, i int) OrderItemDTO {
		return OrderItemDTO{
			OrderID:   id,
			Position:  i,
			ProductID: item.ProductID().Raw(),
			Name:      item.Name(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		}
	})

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	ids, err := parseIDs(dto.ID, dto.CustomerID, dto.StoreID, dto.AreaID)
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		id, idErr := kernel.UUIDFromRaw(*dto.DriverID)
		if idErr != nil {
			return nil, idErr
		}
		driverID = &id
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	charges, err := chargesToDomain(dto)
	if err != nil {
		return nil, err
	}

	dest := order.Destination{Address: dto.Address, Phone: dto.Phone, Notes: dto.Notes}
	if dto.DestinationLat != nil && dto.DestinationLon != nil {
		loc, locErr := kernel.NewLocation(*dto.DestinationLat, *dto.DestinationLon)
		if locErr != nil {
			return nil, locErr
		}
		dest.Location = &loc
	}

	var deliveredAt *time.Time
	if dto.DeliveredAt != nil {
		deliveredAt = lo.ToPtr(dto.DeliveredAt.UTC())
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                ids[0],
		Placement:         order.Placement{CustomerID: ids[1], StoreID: ids[2], AreaID: ids[3]},
		Items:             items,
		Charges:           charges,
		PaymentStatus:     order.PaymentStatus(dto.PaymentStatus),
		PaymentMethod:     order.PaymentMethod(dto.PaymentMethod),
		Destination:       dest,
		EstimatedDelivery: time.Duration(dto.EstimatedDeliverySeconds) * time.Second,
		DriverID:          driverID,
		DeliveredAt:       deliveredAt,
		Status:            status,
		CreatedAt:         dto.CreatedAt.UTC(),
		UpdatedAt:         dto.UpdatedAt.UTC(),
		Version:           dto.Version,
	})
}

func itemToDomain(dto OrderItemDTO) (order.LineItem, error) {
	productID, err := kernel.UUIDFromRaw(dto.ProductID)
	if err != nil {
		return order.LineItem{}, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.LineItem{}, err
	}
	return order.NewLineItem(productID, dto.Name, dto.Quantity, price)
}

func chargesToDomain(dto OrderDTO) (order.Charges, error) {
	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return order.Charges{}, err
	}
	tax, err := kernel.NewMoney(dto.Tax)
	if err != nil {
		return order.Charges{}, err
	}
	discount, err := kernel.NewMoney(dto.Discount)
	if err != nil {
		return order.Charges{}, err
	}
	return order.Charges{DeliveryFee: fee, Tax: tax, Discount: discount}, nil
}

func parseIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromRaw(r)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
