package kernel

import (
	"errors"
	"fmt"

	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	// LatitudeMin and LatitudeMax bound the WGS84 latitude in degrees.
	LatitudeMin = -90.0
	LatitudeMax = 90.0

	// LongitudeMin and LongitudeMax bound the WGS84 longitude in degrees.
	LongitudeMin = -180.0
	LongitudeMax = 180.0
)

// ErrLocationIsNotConstructed is returned when using a zero-value Location.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError("location must be created via NewLocation")

// Location is a WGS84 coordinate used for delivery destinations, store positions and
// the last known position of a driver. It is an immutable value object; the zero
// value is invalid and fails Validate.
//
// Distances are great-circle (haversine) distances in meters.
//
// Example:
//
//	store, _ := kernel.NewLocation(33.3152, 44.3661)
//	customer, _ := kernel.NewLocation(33.3406, 44.4009)
//
//	meters, err := store.DistanceTo(customer)
//	inside, err := customer.WithinRadius(store, 5000)
type Location struct { //nolint:recvcheck //using for validation
	lat   float64
	lon   float64
	guard guard.ConstructorGuard
}

// NewLocation creates a Location from latitude and longitude in degrees.
//
// Returns:
//   - Location: a valid location
//   - error: ValueIsOutOfRangeError for each coordinate outside its bounds
func NewLocation(lat, lon float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLatitude(lat), loc.setLongitude(lon)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// Validate returns ErrLocationIsNotConstructed for the zero value.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// Latitude returns the latitude in degrees.
func (l Location) Latitude() float64 {
	return l.lat
}

// Longitude returns the longitude in degrees.
func (l Location) Longitude() float64 {
	return l.lon
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%.6f,%.6f)", l.lat, l.lon)
}

// IsEqual compares two locations coordinate by coordinate.
// Both locations must be valid.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l.lat == other.lat && l.lon == other.lon, nil
}

// DistanceTo returns the haversine distance in meters between l and other.
//
// Returns:
//   - float64: distance in meters, symmetric and zero for identical points
//   - error: validation error if either location is a zero value
func (l Location) DistanceTo(other Location) (float64, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	return geo.DistanceHaversine(l.point(), other.point()), nil
}

// WithinRadius reports whether l lies within radiusMeters of center (inclusive).
// A non-positive radius only contains the center itself.
func (l Location) WithinRadius(center Location, radiusMeters float64) (bool, error) {
	distance, err := l.DistanceTo(center)
	if err != nil {
		return false, err
	}

	return distance <= radiusMeters, nil
}

// orb points are (lon, lat) ordered.
func (l Location) point() orb.Point {
	return orb.Point{l.lon, l.lat}
}

func (l *Location) setLatitude(lat float64) error {
	if lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}

	l.lat = lat
	return nil
}

func (l *Location) setLongitude(lon float64) error {
	if lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", lon, LongitudeMin, LongitudeMax)
	}

	l.lon = lon
	return nil
}
