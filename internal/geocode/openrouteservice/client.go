// Package openrouteservice provides a geocoding client for the
// OpenRouteService (Pelias) search API.
package openrouteservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/geocode"
	"github.com/fleetdispatch/fleetdispatch/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "openrouteservice-geocode"

	// DefaultBaseURL is the OpenRouteService API base URL.
	DefaultBaseURL = "https://api.openrouteservice.org"

	// DefaultCountry scopes searches to one country (ISO alpha-2).
	DefaultCountry = "MX"

	// DefaultSize is the maximum number of candidates returned.
	DefaultSize = 5

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the geocoding client.
type ClientConfig struct {
	// APIKey is the ORS API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to ORS API).
	BaseURL string

	// Country is the ISO alpha-2 boundary country (optional, defaults to MX).
	Country string

	// Size is the maximum number of candidates (optional, defaults to 5).
	Size int

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

// Client is an OpenRouteService geocoding client.
type Client struct {
	apiKey     string
	baseURL    string
	country    string
	size       int
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new geocoding client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	country := cfg.Country
	if country == "" {
		country = DefaultCountry
	}

	size := cfg.Size
	if size <= 0 {
		size = DefaultSize
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
		country:    country,
		size:       size,
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Search returns candidate locations for the given free text.
func (c *Client) Search(ctx context.Context, text string) ([]geocode.Candidate, error) {
	endpoint := c.baseURL + "/geocode/search"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	q := url.Values{}
	q.Set("text", text)
	q.Set("boundary.country", c.country)
	q.Set("size", strconv.Itoa(c.size))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("text", text).
		Str("country", c.country).
		Msg("searching addresses")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", geocode.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", geocode.ErrProviderUnavailable, resp.StatusCode)
	}

	var decoded searchResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	candidates := make([]geocode.Candidate, 0, len(decoded.Features))
	for _, f := range decoded.Features {
		if len(f.Geometry.Coordinates) != 2 {
			continue
		}
		// GeoJSON order is [lon, lat]
		candidates = append(candidates, geocode.Candidate{
			Label: f.Properties.Label,
			Lat:   f.Geometry.Coordinates[1],
			Lon:   f.Geometry.Coordinates[0],
		})
	}

	c.logger.Debug().
		Int("candidates", len(candidates)).
		Msg("address search completed")

	return candidates, nil
}

// searchResponse is the GeoJSON response of the Pelias search endpoint.
type searchResponse struct {
	Features []struct {
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}
