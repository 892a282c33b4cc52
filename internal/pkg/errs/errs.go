package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("concurrent modification conflict")
)

// IsValidation reports whether err is caused by malformed or semantically invalid input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsOutOfRange)
}

// ObjectNotFoundError is returned when a lookup by identifier finds nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError is returned when a value fails a semantic check.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError is returned when a value falls outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %v is %s, min value is %v, max value is %v",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		return fmt.Sprintf("%s (cause: %s)", msg, e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError is returned when a mandatory value is missing.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// InvalidTransitionError is returned when a state change is not reachable from the
// current state. Callers must re-read the current state before retrying.
type InvalidTransitionError struct {
	From  string
	To    string
	Cause error
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func NewInvalidTransitionErrorWithCause(from, to string, cause error) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to, Cause: cause}
}

func (e *InvalidTransitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s -> %s (cause: %s)", ErrInvalidTransition, e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

// Unwrap exposes both the sentinel and the cause so callers can match either.
func (e *InvalidTransitionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrInvalidTransition, e.Cause}
	}
	return []error{ErrInvalidTransition}
}

// ConflictError is returned when a write loses a race against a concurrent writer.
// It is safe to retry after re-reading the object.
type ConflictError struct {
	Resource string
	ID       any
	Cause    error
}

func NewConflictError(resource string, id any) *ConflictError {
	return &ConflictError{Resource: resource, ID: id}
}

func NewConflictErrorWithCause(resource string, id any, cause error) *ConflictError {
	return &ConflictError{Resource: resource, ID: id, Cause: cause}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %v (cause: %s)", ErrConflict, e.Resource, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %v", ErrConflict, e.Resource, e.ID)
}

func (e *ConflictError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConflict, e.Cause}
	}
	return []error{ErrConflict}
}

func sanitize(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
