// Package order implements the Order aggregate and its status state machine.
//
// The package includes:
//   - Order: the aggregate root holding items, money totals, destination, driver
//     reference and status
//   - Status: the lifecycle enum with a static adjacency table
//   - LineItem: a product line with the unit price captured at placement time
//   - Actor: who requested a change, recorded on events
//   - OrderCreated, OrderStatusChanged, DriverAssigned: domain events
//
// Key business rules:
//   - pending -> confirmed -> preparing -> ready -> out_for_delivery -> delivered
//   - cancelled is reachable from every non-terminal status; delivered and cancelled
//     are terminal
//   - regular actors may cancel only until the order is ready; operators may
//     force-cancel ready and out_for_delivery orders
//   - totals are recomputed after every item or monetary mutation
package order
