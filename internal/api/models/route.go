package models

// RoutePointInput is a stop in a route computation request. The point may be
// omitted while the stop is still being edited; unresolved stops are skipped
// during computation.
type RoutePointInput struct {
	Address string `json:"address,omitempty"`
	Point   *Point `json:"point,omitempty"`
}

// RouteComputeRequest is the request body for computing a route through an
// ordered stop sequence.
type RouteComputeRequest struct {
	Points []RoutePointInput `json:"points" validate:"required"`
}

// RouteSegment is the computed distance and duration between two
// consecutive stops.
type RouteSegment struct {
	DistanceKm  float64 `json:"distanceKm"`
	DurationMin int     `json:"durationMin"`
}

// RouteSolution is a computed route. GeometryPolyline is the canonical
// encoded path; Geometry is its decoded form for map rendering.
type RouteSolution struct {
	Segments         []RouteSegment `json:"segments"`
	TotalDistanceKm  float64        `json:"totalDistanceKm"`
	TotalDurationMin int            `json:"totalDurationMin"`
	GeometryPolyline string         `json:"geometryPolyline,omitempty"`
	Geometry         []Point        `json:"geometry,omitempty"`
	Provider         string         `json:"provider,omitempty"`
	ComputedAt       *Timestamp     `json:"computedAt,omitempty"`
}

// Warning represents a non-fatal issue in the response.
type Warning struct {
	Code     string  `json:"code"`
	Message  string  `json:"message"`
	Provider *string `json:"provider,omitempty"`
}

// RouteComputeResponse is the response for route computation. When the
// provider fails, Solution holds the last successfully computed route and
// Warnings says why it is stale.
type RouteComputeResponse struct {
	Solution RouteSolution `json:"solution"`
	Warnings []Warning     `json:"warnings,omitempty"`
}
