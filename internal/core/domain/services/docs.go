// Package services provides domain services that coordinate the load board
// aggregates and encode rules that belong to no single aggregate.
//
// The package includes:
//   - RequestArbiter: confirms one bid on a load and rejects every competitor
//   - AccessPolicy: which role may perform which operation
//   - TrackingPolicy: who may look at a shipment
//   - PriceQuoter: distance based price quotes with a bounded wait
//   - StateDocumentAdvisor: paperwork required on a route
package services
