// Package googlemaps provides a routing provider backed by the Google Maps
// Directions API. It is an alternative to the OpenRouteService provider,
// selectable via configuration.
package googlemaps

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// ProviderName identifies this routing provider.
const ProviderName = "googlemaps"

// DirectionsAPI is the subset of the Google Maps client used here.
// It makes the provider testable without network access.
type DirectionsAPI interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// ClientConfig holds configuration for the Google Maps provider.
type ClientConfig struct {
	// APIKey is the Google Maps API key. Ignored when API is set.
	APIKey string

	// API overrides the underlying Maps client (used in tests).
	API DirectionsAPI

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Maps Directions routing provider.
type Client struct {
	api    DirectionsAPI
	logger zerolog.Logger
}

// NewClient creates a new Google Maps routing provider.
func NewClient(cfg ClientConfig) (*Client, error) {
	api := cfg.API
	if api == nil {
		c, err := maps.NewClient(maps.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("creating maps client: %w", err)
		}
		api = c
	}

	return &Client{
		api:    api,
		logger: cfg.Logger,
	}, nil
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Route computes a driving route through the given points in order.
// Waypoints are passed as-is; the "optimize" directive is deliberately not
// used so stop order stays under operator control.
func (c *Client) Route(ctx context.Context, points []routing.Coordinate) (*routing.ProviderRoute, error) {
	if len(points) < 2 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "TOO_FEW_POINTS",
			Message:  "at least two points are required",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	req := &maps.DirectionsRequest{
		Origin:      latLng(points[0]),
		Destination: latLng(points[len(points)-1]),
		Mode:        maps.TravelModeDriving,
	}
	for _, p := range points[1 : len(points)-1] {
		req.Waypoints = append(req.Waypoints, latLng(p))
	}

	c.logger.Debug().
		Int("points", len(points)).
		Msg("requesting directions from Google Maps")

	routes, _, err := c.api.Directions(ctx, req)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	if len(routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "provider returned no routes",
			Err:      routing.ErrNoRouteFound,
		}
	}

	route := routes[0]
	legs := make([]routing.Leg, 0, len(route.Legs))
	for _, leg := range route.Legs {
		legs = append(legs, routing.Leg{
			DistanceMeters:  float64(leg.Distance.Meters),
			DurationSeconds: leg.Duration.Seconds(),
		})
	}

	return &routing.ProviderRoute{
		Legs:             legs,
		GeometryPolyline: route.OverviewPolyline.Points,
	}, nil
}

// latLng formats a coordinate the way the Directions API expects.
func latLng(c routing.Coordinate) string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lon)
}
