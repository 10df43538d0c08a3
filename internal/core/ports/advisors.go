package ports

import "context"

// DistanceEstimator returns the road distance between two free text places.
// Implementations must honour ctx cancellation.
type DistanceEstimator interface {
	EstimateKm(ctx context.Context, origin, destination string) (float64, error)
}

// DocumentAdvisor lists the paperwork required on a route.
type DocumentAdvisor interface {
	RequiredDocuments(origin, destination string) []string
}
