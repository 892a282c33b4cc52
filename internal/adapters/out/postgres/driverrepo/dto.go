// Package driverrepo persists driver aggregates with gorm. A driver's active
// orders are not stored on the driver row; they are read from the orders table.
package driverrepo

import (
	"time"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// DriverDTO is the "drivers" row.
type DriverDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Phone           string    `gorm:"type:varchar(32);not null"`
	Vehicle         string    `gorm:"type:varchar(16);not null"`
	Status          string    `gorm:"type:varchar(16);not null"`
	Active          bool      `gorm:"not null"`
	LocationLat     *float64
	LocationLon     *float64
	AreaID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Rating          float64   `gorm:"not null;default:0"`
	RatingCount     int       `gorm:"not null;default:0"`
	TotalDeliveries int       `gorm:"not null;default:0"`
	Capacity        int       `gorm:"not null"`
	Version         int       `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	dto := DriverDTO{
		ID:              d.ID().Raw(),
		UserID:          d.UserID().Raw(),
		Name:            d.Name(),
		Phone:           d.Phone(),
		Vehicle:         string(d.Vehicle()),
		Status:          d.Status().String(),
		Active:          d.IsActive(),
		AreaID:          d.AreaID().Raw(),
		Rating:          d.Rating(),
		RatingCount:     d.RatingCount(),
		TotalDeliveries: d.TotalDeliveries(),
		Capacity:        d.Capacity(),
		Version:         d.Version(),
	}

	if loc := d.Location(); loc != nil {
		dto.LocationLat = lo.ToPtr(loc.Latitude())
		dto.LocationLon = lo.ToPtr(loc.Longitude())
	}

	return dto
}

func toDomain(dto DriverDTO, activeOrders []kernel.UUID) (*driver.Driver, error) {
	id, err := kernel.UUIDFromRaw(dto.ID)
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromRaw(dto.UserID)
	if err != nil {
		return nil, err
	}
	areaID, err := kernel.UUIDFromRaw(dto.AreaID)
	if err != nil {
		return nil, err
	}
	status, err := driver.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var location *kernel.Location
	if dto.LocationLat != nil && dto.LocationLon != nil {
		loc, locErr := kernel.NewLocation(*dto.LocationLat, *dto.LocationLon)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
	}

	return driver.RestoreDriver(driver.Snapshot{
		ID:              id,
		UserID:          userID,
		Name:            dto.Name,
		Phone:           dto.Phone,
		Vehicle:         driver.VehicleType(dto.Vehicle),
		Status:          status,
		Active:          dto.Active,
		Location:        location,
		AreaID:          areaID,
		Rating:          dto.Rating,
		RatingCount:     dto.RatingCount,
		TotalDeliveries: dto.TotalDeliveries,
		Capacity:        dto.Capacity,
		ActiveOrders:    activeOrders,
		Version:         dto.Version,
	})
}
