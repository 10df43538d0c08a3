package services

import (
	"context"
	"log/slog"
	"math"
	"time"
)

const (
	// DefaultRatePerKm is the tariff applied to the road distance.
	DefaultRatePerKm = 15.0
	// DefaultPricingTimeout bounds how long posting a load waits for a quote.
	DefaultPricingTimeout = 30 * time.Second
)

type distanceEstimator interface {
	EstimateKm(ctx context.Context, origin, destination string) (float64, error)
}

// PriceQuoter turns a road distance into a price. A quote that cannot be
// produced in time is reported as unknown, never as zero.
type PriceQuoter struct {
	estimator distanceEstimator
	ratePerKm float64
	timeout   time.Duration
	logger    *slog.Logger
}

func NewPriceQuoter(estimator distanceEstimator, ratePerKm float64, timeout time.Duration, logger *slog.Logger) *PriceQuoter {
	if ratePerKm <= 0 {
		ratePerKm = DefaultRatePerKm
	}
	if timeout <= 0 {
		timeout = DefaultPricingTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceQuoter{
		estimator: estimator,
		ratePerKm: ratePerKm,
		timeout:   timeout,
		logger:    logger.With("component", "PriceQuoter"),
	}
}

// Quote returns round(km * rate, 2), or nil when the distance is unknown.
func (q *PriceQuoter) Quote(ctx context.Context, origin, destination string) *float64 {
	if q == nil || q.estimator == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	km, err := q.estimator.EstimateKm(ctx, origin, destination)
	if err != nil {
		q.logger.WarnContext(ctx, "price unknown, distance lookup failed",
			"origin", origin, "destination", destination, "error", err)
		return nil
	}
	if math.IsNaN(km) || math.IsInf(km, 0) || km < 0 {
		q.logger.WarnContext(ctx, "price unknown, distance is not usable",
			"origin", origin, "destination", destination, "km", km)
		return nil
	}

	price := math.Round(km*q.ratePerKm*100) / 100
	return &price
}
