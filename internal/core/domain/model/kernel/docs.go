// Package kernel provides the shared value objects of the order dispatch domain.
//
// The package includes:
//   - UUID: identifier for aggregates and entities
//   - Location: a WGS84 coordinate with haversine distance and radius membership
//   - Money: a non-negative exact decimal amount
//   - DomainEvent: the contract every recorded domain event satisfies
//
// All values are immutable; zero values are invalid and fail Validate.
package kernel
