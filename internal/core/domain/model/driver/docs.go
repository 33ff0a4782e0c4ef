// Package driver provides the Driver aggregate: a vehicle operator with a
// capacity, an availability status, at most one active delivery, and
// lifetime delivery totals.
//
// Key business rules:
//   - Busy iff an active delivery is set; Busy is only entered by taking a load
//   - Resting and Offline are requested explicitly and only without an active delivery
//   - Total deliveries and total earnings never decrease
package driver
