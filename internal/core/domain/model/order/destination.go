package order

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
)

// Destination is where and to whom the order is delivered.
type Destination struct {
	// Address is the free-text delivery address.
	Address string
	// Location is optional; when present it enables radius checks during dispatch.
	Location *kernel.Location
	// Phone is the customer's contact number for the driver.
	Phone string
	Notes string
}

func (d Destination) Validate() error {
	var errList []error
	if strings.TrimSpace(d.Address) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("delivery address"))
	}
	if strings.TrimSpace(d.Phone) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("contact phone"))
	}
	if d.Location != nil {
		errList = append(errList, d.Location.Validate())
	}
	return errors.Join(errList...)
}

// Charges are the monetary components added to the item subtotal.
// Zero values mean "none".
type Charges struct {
	DeliveryFee kernel.Money
	Tax         kernel.Money
	Discount    kernel.Money
}

// Placement ties an order to its customer, store and delivery area.
type Placement struct {
	CustomerID kernel.UUID
	StoreID    kernel.UUID
	// AreaID is the service area (governorate) used to find eligible drivers.
	AreaID kernel.UUID
}

func (p Placement) Validate() error {
	return errors.Join(p.CustomerID.Validate(), p.StoreID.Validate(), p.AreaID.Validate())
}
