// Package driver implements the Driver aggregate: availability, active flag,
// service area, rating and the set of orders the driver currently holds.
//
// A driver is busy exactly while holding at least one active order. Inactive
// drivers are never eligible, whatever their status. Capacity (default 1) bounds
// how many orders a driver can hold at once.
package driver
