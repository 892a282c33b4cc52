// Package catalogrepo reads stores and products. The catalog is owned by another
// service; this module only reads the rows it needs to price and route orders.
package catalogrepo

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StoreDTO is the "stores" row.
type StoreDTO struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OwnerID                  uuid.UUID       `gorm:"type:uuid;not null"`
	Name                     string          `gorm:"type:varchar(255);not null"`
	AreaID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DeliveryFee              decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	EstimatedDeliveryMinutes int             `gorm:"not null;default:0"`
	LocationLat              *float64
	LocationLon              *float64
	Active                   bool `gorm:"not null"`
}

func (StoreDTO) TableName() string {
	return "stores"
}

// ProductDTO is the "products" row.
type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StoreID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Price     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Available bool            `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func storeToPort(dto StoreDTO) (ports.Store, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return ports.Store{}, err
	}
	ownerID, err := kernel.UUIDFromRaw(dto.OwnerID)
	if err != nil {
		return ports.Store{}, err
	}
	areaID, err := kernel.UUIDFromRaw(dto.AreaID)
	if err != nil {
		return ports.Store{}, err
	}
	fee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return ports.Store{}, err
	}

	store := ports.Store{
		ID:                    id,
		OwnerID:               ownerID,
		Name:                  dto.Name,
		AreaID:                areaID,
		DeliveryFee:           fee,
		EstimatedDeliveryTime: time.Duration(dto.EstimatedDeliveryMinutes) * time.Minute,
		Active:                dto.Active,
	}

	if dto.LocationLat != nil && dto.LocationLon != nil {
		loc, locErr := kernel.NewLocation(*dto.LocationLat, *dto.LocationLon)
		if locErr != nil {
			return ports.Store{}, locErr
		}
		store.Location = &loc
	}

	return store, nil
}

func productToPort(dto ProductDTO) (ports.Product, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return ports.Product{}, err
	}
	storeID, err := kernel.UUIDFromRaw(dto.StoreID)
	if err != nil {
		return ports.Product{}, err
	}
	price, err := kernel.NewMoney(dto.Price)
	if err != nil {
		return ports.Product{}, err
	}

	return ports.Product{
		ID:        id,
		StoreID:   storeID,
		Name:      dto.Name,
		Price:     price,
		Available: dto.Available,
	}, nil
}
