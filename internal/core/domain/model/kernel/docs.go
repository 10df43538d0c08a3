// Package kernel provides the value objects shared by every aggregate of the load board.
//
// The package includes:
//   - ID: the positive integer identity of loads, load requests and users
//   - Reference: the public "UTI-<id>" shipment reference of a load
//   - Position: a latitude/longitude pair reported by a driver
//
// Values are immutable. Reference and Position embed a constructor guard so a
// zero value fails validation.
package kernel
