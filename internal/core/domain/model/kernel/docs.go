// Package kernel provides the shared value objects of the freight domain.
//
// The package includes:
//   - UUID: identifier for drivers and cargo loads
//   - Weight: a non-negative load or capacity measured in tons
//   - Money: a non-negative amount in minor currency units (fares, earnings)
//
// All values are immutable; zero values that carry no meaning are rejected
// by Validate so they cannot leak into aggregates.
package kernel
