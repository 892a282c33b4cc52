// Package services provides domain services that span the order and driver
// aggregates.
//
// The package includes:
//   - OrderDispatcher: ranks eligible drivers and assigns the best one to a ready order
//
// Services operate on loaded aggregates only; loading, locking and persisting them
// is the job of the application layer.
package services
