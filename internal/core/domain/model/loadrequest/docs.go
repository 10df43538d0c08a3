// Package loadrequest provides LoadRequest, one driver's bid to carry one load.
//
// A request is created pending and is resolved exactly once: confirmed when the
// sender picks it, rejected when the sender picks another bid on the same load.
package loadrequest
