// Package services holds domain logic that spans drivers and cargo loads
// without belonging to either aggregate.
//
// The package includes:
//   - CapacityPolicy: the weight band a vehicle may see and accept, and the
//     stable filter deriving a driver's visible loads from a pool snapshot
package services
