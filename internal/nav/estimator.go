// README: Route estimation boundary; simulated estimator used without a Maps key.
package nav

import (
	"context"
	"fmt"
	"math"
	"time"

	"courierd/internal/types"
)

// Estimate is what the order-details screen shows for a leg.
type Estimate struct {
	Duration time.Duration
	Distance string
}

// RouteEstimator abstracts travel-time lookup. The production
// implementation calls Google Maps; the simulated one is pure math.
type RouteEstimator interface {
	Estimate(ctx context.Context, origin, destination types.Point) (Estimate, error)
}

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func haversineKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// SimulatedEstimator derives a travel time from straight-line distance
// and an assumed average speed. No traffic, no road network.
type SimulatedEstimator struct {
	SpeedKmh float64
}

func NewSimulatedEstimator(speedKmh float64) *SimulatedEstimator {
	if speedKmh <= 0 {
		speedKmh = 25.0
	}
	return &SimulatedEstimator{SpeedKmh: speedKmh}
}

func (e *SimulatedEstimator) Estimate(_ context.Context, origin, destination types.Point) (Estimate, error) {
	km := haversineKm(origin, destination)
	hours := km / e.SpeedKmh
	return Estimate{
		Duration: time.Duration(hours * float64(time.Hour)).Round(time.Second),
		Distance: fmt.Sprintf("%.1f km", km),
	}, nil
}
