package kernel

import (
	"fmt"

	"orderhub/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned when validating a zero-value UUID.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID or UUIDFromString")

// UUID identifies every aggregate and entity in the domain (orders, drivers, users,
// stores, notifications, push subscriptions). It wraps github.com/google/uuid so the
// domain never handles the nil UUID: the zero value is invalid and fails Validate.
//
// UUID is immutable and safe for concurrent use.
//
// Example:
//
//	orderID := kernel.NewUUID()
//
//	storeID, err := kernel.UUIDFromString(req.StoreID)
//	if err != nil {
//	    return fmt.Errorf("invalid store id: %w", err)
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID generates a new random (version 4) identifier.
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses the textual form of a UUID. The nil UUID is rejected.
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, errs.NewValueIsInvalidErrorWithCause("uuid", fmt.Errorf("invalid UUID format: %w", err))
	}
	return UUIDFromRaw(id)
}

// UUIDFromRaw wraps an already parsed uuid.UUID, typically read back from storage.
func UUIDFromRaw(id uuid.UUID) (UUID, error) {
	newID := UUID{id: id}
	if err := newID.Validate(); err != nil {
		return UUID{}, err
	}
	return newID, nil
}

// MustUUID parses s and panics on failure. Intended for fixtures and constants.
func MustUUID(s string) UUID {
	id, err := UUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx" form.
func (u UUID) String() string {
	return u.id.String()
}

// Raw returns the underlying uuid.UUID for persistence adapters.
func (u UUID) Raw() uuid.UUID {
	return u.id
}

// IsEqual reports whether both identifiers hold the same value.
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// IsZero reports whether u is the zero value.
func (u UUID) IsZero() bool {
	return u.id == uuid.Nil
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
func (u UUID) Validate() error {
	if u.IsZero() {
		return ErrUUIDIsNotConstructed
	}
	return nil
}

// MarshalText lets UUID appear in JSON payloads and event envelopes.
func (u UUID) MarshalText() ([]byte, error) {
	return u.id.MarshalText()
}

// UnmarshalText parses the canonical text form.
func (u *UUID) UnmarshalText(data []byte) error {
	parsed, err := UUIDFromString(string(data))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}
