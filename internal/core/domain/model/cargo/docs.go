// Package cargo provides the CargoLoad aggregate: a shipment request with
// weight, route, urgency and fare that a driver can claim and deliver.
//
// Key business rules:
//   - Weight is positive, fare is non-negative, origin and destination are required
//   - Status follows a linear workflow: Available -> Assigned -> InTransit -> Completed
//   - Completed is terminal; a completed load is never reassigned
//   - A driver is recorded iff the status is not Available
package cargo
