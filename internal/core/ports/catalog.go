package ports

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

// Product is the catalog view needed to price an order line.
type Product struct {
	ID        kernel.UUID
	StoreID   kernel.UUID
	Name      string
	Price     kernel.Money
	Available bool
}

// Store is the catalog view of a store.
type Store struct {
	ID                    kernel.UUID
	OwnerID               kernel.UUID
	Name                  string
	AreaID                kernel.UUID
	DeliveryFee           kernel.Money
	EstimatedDeliveryTime time.Duration
	Location              *kernel.Location
	Active                bool
}

// ProductCatalog resolves products. Unknown ids are absent from the result.
type ProductCatalog interface {
	GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]Product, error)
}

// StoreDirectory resolves stores or returns an errs.ObjectNotFoundError.
type StoreDirectory interface {
	GetStore(ctx context.Context, id kernel.UUID) (Store, error)
}
