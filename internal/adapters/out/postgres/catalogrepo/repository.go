package catalogrepo

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormCatalog implements ports.ProductCatalog and ports.StoreDirectory.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

// GetProducts loads the given products. Unknown ids are left out of the map.
func (c *GormCatalog) GetProducts(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]ports.Product, error) {
	result := make(map[kernel.UUID]ports.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	raw := lo.Map(ids, func(id kernel.UUID, _ int) uuid.UUID { return id.Raw() })

	var dtos []ProductDTO
	if err := c.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		product, err := productToPort(dto)
		if err != nil {
			return nil, err
		}
		result[product.ID] = product
	}

	return result, nil
}

// GetStore loads a store or returns an ObjectNotFoundError.
func (c *GormCatalog) GetStore(ctx context.Context, id kernel.UUID) (ports.Store, error) {
	if err := id.Validate(); err != nil {
		return ports.Store{}, err
	}

	var dto StoreDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", id.Raw()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Store{}, errs.NewObjectNotFoundError("store", id.String())
		}
		return ports.Store{}, err
	}

	return storeToPort(dto)
}
