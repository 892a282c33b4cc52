package ports

import (
	"context"

	"orderhub/internal/core/domain/model/driver"
	"orderhub/internal/core/domain/model/kernel"
)

// DriverReader loads a single driver.
type DriverReader interface {
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
}

// DriverRepository persists driver aggregates. A driver's active orders are derived
// from the non-terminal orders that reference it.
type DriverRepository interface {
	DriverReader

	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update is version-checked like OrderRepository.Update.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// GetForUpdate row-locks the driver until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// FindEligible returns active drivers of the area that are available, or also
	// busy ones when excludeBusy is false, ordered by rating descending and total
	// deliveries ascending. No match yields an empty slice.
	FindEligible(ctx context.Context, areaID kernel.UUID, excludeBusy bool) ([]*driver.Driver, error)
}
