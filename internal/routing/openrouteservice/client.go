// Package openrouteservice provides a client for the OpenRouteService directions API.
package openrouteservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/provider/resilience"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

const (
	// ProviderName identifies this routing provider.
	ProviderName = "openrouteservice"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// DefaultProfile is the routing profile for delivery vehicles.
	DefaultProfile = "driving-car"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the OpenRouteService client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to ORS API).
	BaseURL string

	// Profile is the routing profile (optional, defaults to driving-car).
	Profile string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is an OpenRouteService API client.
type Client struct {
	apiKey     string
	baseURL    string
	profile    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new OpenRouteService client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	profile := cfg.Profile
	if profile == "" {
		profile = DefaultProfile
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		if cfg.Registry != nil {
			clientCfg.Registry = cfg.Registry
		}
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		profile:    profile,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Route computes a route through the given points in order.
// The response carries one segment per consecutive pair of points.
func (c *Client) Route(ctx context.Context, points []routing.Coordinate) (*routing.ProviderRoute, error) {
	if len(points) < 2 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "TOO_FEW_POINTS",
			Message:  "at least two points are required",
			Err:      routing.ErrInvalidCoordinates,
		}
	}

	// ORS uses [lon, lat] order (GeoJSON)
	coordinates := make([][]float64, 0, len(points))
	for _, p := range points {
		coordinates = append(coordinates, []float64{p.Lon, p.Lat})
	}

	orsReq := orsRequest{
		Coordinates:  coordinates,
		Instructions: false,
		Geometry:     true,
		Units:        "m",
	}

	body, err := json.Marshal(orsReq)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", c.baseURL, c.profile)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", c.apiKey)
	httpReq.Header.Set("Accept", "application/json, application/geo+json")

	c.logger.Debug().
		Int("points", len(points)).
		Str("profile", c.profile).
		Msg("requesting directions from ORS")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach routing provider",
			Err:      routing.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp.StatusCode, respBody)
	}

	var orsResp orsResponse
	if err := json.Unmarshal(respBody, &orsResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if len(orsResp.Routes) == 0 {
		return nil, &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "provider returned no routes",
			Err:      routing.ErrNoRouteFound,
		}
	}

	result := toProviderRoute(&orsResp.Routes[0])

	c.logger.Debug().
		Int("legs", len(result.Legs)).
		Msg("received directions from ORS")

	return result, nil
}

// handleErrorResponse maps ORS error responses to domain errors.
func (c *Client) handleErrorResponse(statusCode int, body []byte) error {
	var orsErr orsErrorResponse
	if err := json.Unmarshal(body, &orsErr); err != nil {
		// Fall back to generic error if we can't parse
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("routing provider returned status %d", statusCode),
			Err:      routing.ErrProviderUnavailable,
		}
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "API rate limit exceeded, please try again later",
			Err:      routing.ErrRateLimitExceeded,
		}
	case http.StatusForbidden:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "API access denied - check API key configuration",
			Err:      routing.ErrProviderUnavailable,
		}
	case http.StatusNotFound:
		return &routing.Error{
			Provider: ProviderName,
			Code:     "NO_ROUTE",
			Message:  "no route found through the given points",
			Err:      routing.ErrNoRouteFound,
		}
	case http.StatusBadRequest:
		if orsErr.Error.Code == orsErrorCodeNotFound {
			return &routing.Error{
				Provider: ProviderName,
				Code:     "NO_ROUTE",
				Message:  orsErr.Error.Message,
				Err:      routing.ErrNoRouteFound,
			}
		}
		return &routing.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  orsErr.Error.Message,
			Err:      routing.ErrInvalidCoordinates,
		}
	default:
		if statusCode >= 500 {
			return &routing.Error{
				Provider: ProviderName,
				Code:     fmt.Sprintf("SERVER_%d", statusCode),
				Message:  "routing provider is temporarily unavailable",
				Err:      routing.ErrProviderUnavailable,
			}
		}
		return &routing.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  orsErr.Error.Message,
			Err:      routing.ErrProviderUnavailable,
		}
	}
}

// toProviderRoute converts an ORS route to the domain model.
// ORS returns one segment per consecutive waypoint pair.
func toProviderRoute(route *orsRoute) *routing.ProviderRoute {
	legs := make([]routing.Leg, 0, len(route.Segments))
	for _, seg := range route.Segments {
		legs = append(legs, routing.Leg{
			DistanceMeters:  seg.Distance,
			DurationSeconds: seg.Duration,
		})
	}

	return &routing.ProviderRoute{
		Legs:             legs,
		GeometryPolyline: route.Geometry,
	}
}
