package routing

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the routing service.
type ServiceConfig struct {
	// Provider is the routing data provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service turns an itinerary's resolved stops into a Solution.
//
// Edits to an itinerary retrigger computation without waiting for in-flight
// calls, so responses can arrive out of order. Each computation takes a
// monotonically increasing token; a response is applied only while its token
// is still the latest, otherwise it is discarded and the last applied
// solution stands.
type Service struct {
	provider Provider
	logger   zerolog.Logger

	mu       sync.Mutex
	token    uint64
	lastGood Solution
}

// NewService creates a new routing service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Compute computes the route through points in the given order.
//
// Points without coordinates are filtered out first. With fewer than two
// resolved points the empty solution is returned without calling the
// provider. On provider failure the previously applied solution is retained
// and the error returned alongside it; totals and segments are never
// partially overwritten.
func (s *Service) Compute(ctx context.Context, points []GeoPoint) (Solution, error) {
	coords := resolvedCoordinates(points)

	s.mu.Lock()
	s.token++
	token := s.token
	s.mu.Unlock()

	if len(coords) < 2 {
		// Not enough stops to route; the empty solution becomes current.
		s.mu.Lock()
		defer s.mu.Unlock()
		if token != s.token {
			return s.lastGood, ErrSuperseded
		}
		s.lastGood = EmptySolution()
		return s.lastGood, nil
	}

	for _, c := range coords {
		if err := validateCoordinate(c); err != nil {
			s.mu.Lock()
			defer s.mu.Unlock()
			return s.lastGood, &Error{
				Provider: s.provider.Name(),
				Code:     "INVALID_POINT",
				Message:  "invalid stop coordinates",
				Err:      ErrInvalidCoordinates,
			}
		}
	}

	s.logger.Debug().
		Int("stops", len(coords)).
		Str("provider", s.provider.Name()).
		Uint64("token", token).
		Msg("computing route")

	route, err := s.provider.Route(ctx, coords)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.token {
		s.logger.Debug().
			Uint64("token", token).
			Uint64("latest", s.token).
			Msg("discarding superseded route result")
		return s.lastGood, ErrSuperseded
	}

	if err != nil {
		s.logger.Error().Err(err).
			Int("stops", len(coords)).
			Str("provider", s.provider.Name()).
			Msg("route computation failed, keeping last good solution")
		return s.lastGood, err
	}

	sol, err := toSolution(route, s.provider.Name(), len(coords))
	if err != nil {
		return s.lastGood, err
	}

	s.lastGood = sol
	return sol, nil
}

// LastGood returns the most recently applied solution.
func (s *Service) LastGood() Solution {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastGood
}

// ProviderName returns the name of the underlying provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// toSolution maps a provider route to operator units and sums the totals.
func toSolution(route *ProviderRoute, provider string, stops int) (Solution, error) {
	if len(route.Legs) != stops-1 {
		return Solution{}, &Error{
			Provider: provider,
			Code:     "LEG_MISMATCH",
			Message:  fmt.Sprintf("provider returned %d legs for %d stops", len(route.Legs), stops),
			Err:      ErrNoRouteFound,
		}
	}

	segments := make([]Segment, 0, len(route.Legs))
	var totalKm float64
	var totalMin int
	for _, leg := range route.Legs {
		seg := Segment{
			DistanceKm:  roundKm(leg.DistanceMeters),
			DurationMin: int(math.Round(leg.DurationSeconds / 60)),
		}
		segments = append(segments, seg)
		totalKm += seg.DistanceKm
		totalMin += seg.DurationMin
	}

	return Solution{
		Segments:         segments,
		TotalDistanceKm:  roundTo1(totalKm),
		TotalDurationMin: totalMin,
		GeometryPolyline: route.GeometryPolyline,
		Provider:         provider,
		ComputedAt:       time.Now(),
	}, nil
}

// resolvedCoordinates filters out stops that have no coordinates yet.
func resolvedCoordinates(points []GeoPoint) []Coordinate {
	coords := make([]Coordinate, 0, len(points))
	for _, p := range points {
		if p.Resolved() {
			coords = append(coords, *p.Coord)
		}
	}
	return coords
}

// roundKm converts meters to kilometers rounded to one decimal.
func roundKm(meters float64) float64 {
	return roundTo1(meters / 1000)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}

// validateCoordinate checks that a coordinate is within valid ranges.
func validateCoordinate(c Coordinate) error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", c.Lon)
	}
	return nil
}
