// Package load provides the Load aggregate, the shipment record whose lifecycle the
// load board arbitrates.
//
// The package includes:
//   - Load: the aggregate root holding route, cargo, price, driver and position
//   - Status: pending -> requested -> assigned -> intransit -> delivered, plus canceled
//   - PaymentStatus: unpaid -> paid, with processing and failed reserved
//   - Event: lifecycle facts recorded by the aggregate and published after commit
//
// Key business rules:
//   - A driver is set if and only if the status is assigned, intransit or delivered
//     (a canceled load may keep the driver it had)
//   - Payment becomes paid only from unpaid and only once the load is delivered
//   - Only the assigned driver reports positions, and only while assigned or intransit
package load
