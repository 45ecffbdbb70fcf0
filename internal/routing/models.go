// Package routing computes driving itineraries through an ordered list of stops.
package routing

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for routing operations.
var (
	// ErrProviderUnavailable indicates the routing provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	// ErrNoRouteFound indicates no valid route exists through the given points.
	ErrNoRouteFound = errors.New("no route found through the given points")
	// ErrRateLimitExceeded indicates the API quota has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidCoordinates indicates the provided coordinates are invalid or out of range.
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	// ErrSuperseded indicates a newer computation started before this one finished.
	// The caller should keep the last applied solution.
	ErrSuperseded = errors.New("route computation superseded by a newer request")
)

// Provider defines the interface for routing providers.
type Provider interface {
	// Route computes a route through points in the exact order given.
	// Stop order is the operator's decision; providers must not reorder.
	Route(ctx context.Context, points []Coordinate) (*ProviderRoute, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Coordinate represents a geographic point.
type Coordinate struct {
	Lat float64
	Lon float64
}

// GeoPoint is an itinerary stop: a free-text address plus, once resolved,
// its coordinate. A stop without a coordinate is excluded from computation.
type GeoPoint struct {
	Address string
	Coord   *Coordinate
}

// Resolved reports whether the point carries a coordinate.
func (p GeoPoint) Resolved() bool {
	return p.Coord != nil
}

// ProviderRoute is the raw result returned by a routing provider.
type ProviderRoute struct {
	Legs             []Leg  // one per consecutive pair of points
	GeometryPolyline string // encoded polyline (precision 5)
}

// Leg is the provider-reported distance and duration between two consecutive points.
type Leg struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Segment is a computed leg in operator units.
type Segment struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin int     `json:"durationMin"`
}

// Solution is the computed route for an itinerary: per-segment distances and
// durations, their totals, and the dense path for map drawing. The encoded
// polyline is the canonical geometry representation; once a trip is confirmed
// it is persisted verbatim and never recomputed.
type Solution struct {
	Segments         []Segment `json:"segments"`
	TotalDistanceKm  float64   `json:"totalDistanceKm"`
	TotalDurationMin int       `json:"totalDurationMin"`
	GeometryPolyline string    `json:"geometryPolyline"`
	Provider         string    `json:"provider,omitempty"`
	ComputedAt       time.Time `json:"computedAt,omitempty"`
}

// IsEmpty reports whether the solution is the empty/zero solution produced
// when fewer than two resolved points exist.
func (s Solution) IsEmpty() bool {
	return len(s.Segments) == 0
}

// EmptySolution returns the zero solution.
func EmptySolution() Solution {
	return Solution{}
}

// Error provides detailed error information from the routing provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
