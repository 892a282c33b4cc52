package queries

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves every order that is not delivered or cancelled,
// optionally limited to one service area. It backs the operations board.
type GetActiveOrdersQuery struct {
	areaID *kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery builds the query; a nil areaID selects all areas.
func NewGetActiveOrdersQuery(areaID *kernel.UUID) (GetActiveOrdersQuery, error) {
	if areaID != nil {
		if err := areaID.Validate(); err != nil {
			return GetActiveOrdersQuery{}, err
		}
		id := *areaID
		areaID = &id
	}
	return GetActiveOrdersQuery{areaID: areaID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) AreaID() *kernel.UUID {
	return q.areaID
}

type GetActiveOrdersQueryResponse struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	StoreID    kernel.UUID
	AreaID     kernel.UUID
	DriverID   *kernel.UUID
	Status     string
	Total      string
	Address    string
	CreatedAt  time.Time
}
