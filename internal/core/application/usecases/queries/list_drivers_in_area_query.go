package queries

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrListDriversInAreaQueryIsNotConstructed = errors.New(
	"ListDriversInAreaQuery must be created via NewListDriversInAreaQuery constructor",
)

// ListDriversInAreaQuery lists the active drivers registered in one service area,
// whatever their current availability.
//
// Example:
//
//	query, _ := NewListDriversInAreaQuery(areaID)
//	drivers, err := NewListDriversInAreaQueryHandler(db).Handle(ctx, query)
type ListDriversInAreaQuery struct {
	areaID kernel.UUID

	guard guard.ConstructorGuard
}

func NewListDriversInAreaQuery(areaID kernel.UUID) (ListDriversInAreaQuery, error) {
	if err := areaID.Validate(); err != nil {
		return ListDriversInAreaQuery{}, err
	}
	return ListDriversInAreaQuery{areaID: areaID, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDriversInAreaQuery) Validate() error {
	return q.guard.Validate(ErrListDriversInAreaQueryIsNotConstructed)
}

func (q ListDriversInAreaQuery) AreaID() kernel.UUID {
	return q.areaID
}

// ListDriversInAreaQueryResponse is the dispatcher's view of one driver.
type ListDriversInAreaQueryResponse struct {
	ID              kernel.UUID
	Name            string
	Phone           string
	Vehicle         string
	Status          string
	Rating          float64
	TotalDeliveries int
	Capacity        int
	ActiveOrders    int
	Location        *kernel.Location
}
