// README: Google Maps Directions backed route estimator.
package nav

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"courierd/internal/types"
)

// GoogleEstimator resolves travel estimates through the Directions API.
type GoogleEstimator struct {
	client *maps.Client
}

func NewGoogleEstimator(apiKey string) (*GoogleEstimator, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return &GoogleEstimator{client: client}, nil
}

func (e *GoogleEstimator) Estimate(ctx context.Context, origin, destination types.Point) (Estimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Lat, origin.Lng),
		Destination: fmt.Sprintf("%f,%f", destination.Lat, destination.Lng),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := e.client.Directions(ctx, r)
	if err != nil {
		return Estimate{}, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Estimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return Estimate{Duration: leg.Duration, Distance: leg.Distance.HumanReadable}, nil
}
