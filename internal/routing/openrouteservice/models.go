package openrouteservice

// orsRequest represents the ORS directions API request body.
type orsRequest struct {
	Coordinates  [][]float64 `json:"coordinates"`
	Instructions bool        `json:"instructions"`
	Geometry     bool        `json:"geometry"`
	Units        string      `json:"units"`
}

// orsResponse represents the ORS directions API response.
type orsResponse struct {
	Routes   []orsRoute `json:"routes"`
	BBox     []float64  `json:"bbox,omitempty"`
	Metadata *metadata  `json:"metadata,omitempty"`
}

// metadata contains response metadata.
type metadata struct {
	Attribution string `json:"attribution,omitempty"`
	Service     string `json:"service,omitempty"`
	Timestamp   int64  `json:"timestamp,omitempty"`
}

// orsRoute represents a single route in the ORS response.
type orsRoute struct {
	Summary   routeSummary   `json:"summary"`
	Segments  []routeSegment `json:"segments,omitempty"`
	BBox      []float64      `json:"bbox,omitempty"`
	Geometry  string         `json:"geometry"`
	WayPoints []int          `json:"way_points,omitempty"`
}

// routeSummary contains summary information for a route.
type routeSummary struct {
	Distance float64 `json:"distance"` // Distance in meters
	Duration float64 `json:"duration"` // Duration in seconds
}

// routeSegment is the per-waypoint-pair distance and duration.
type routeSegment struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
}

// orsErrorResponse represents an error response from ORS.
type orsErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Info string `json:"info,omitempty"`
}

// ORS error codes for error mapping.
const (
	orsErrorCodeNotFound     = 2009 // Route not found
	orsErrorCodeInvalidParam = 2003 // Invalid parameter
)
