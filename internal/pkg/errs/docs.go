// Package errs holds the error taxonomy shared by the domain, the use cases and the
// adapters.
//
// Every structured error unwraps to a sentinel, so callers classify with errors.Is
// and read details with errors.As:
//
//	ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange  input validation (IsValidation)
//	ErrObjectNotFound                                           lookup by id found nothing
//	ErrInvalidTransition                                        order status edge does not exist
//	ErrConflict                                                 optimistic version check lost a race
//
// InvalidTransitionError and ConflictError also unwrap to their cause, which lets
// callers match a domain reason such as order.ErrOrderIsTerminal.
package errs
