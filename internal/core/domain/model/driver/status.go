package driver

import (
	"fmt"

	"orderhub/internal/pkg/errs"
)

// Status is a driver's availability.
//
//	Offline <──> Available ──(assigned)──> Busy ──(last order released)──> Available
//
// Busy is entered and left only by assignment and release; the driver's own toggle
// moves between Offline and Available.
type Status int

const (
	Unknown Status = iota
	Available
	Busy
	Offline
)

var statusNames = map[Status]string{
	Unknown:   "unknown",
	Available: "available",
	Busy:      "busy",
	Offline:   "offline",
}

// ParseStatus converts a persisted status name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidError("driver status")
	}
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

// VehicleType is what the driver delivers with.
type VehicleType string

const (
	VehicleBicycle    VehicleType = "bicycle"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleCar        VehicleType = "car"
	VehicleVan        VehicleType = "van"
)

func (v VehicleType) Validate() error {
	switch v {
	case VehicleBicycle, VehicleMotorcycle, VehicleCar, VehicleVan:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("vehicle type", fmt.Errorf("%q is not supported", string(v)))
	}
}
