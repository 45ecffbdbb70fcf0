// Package geocode resolves free-text addresses into coordinate candidates.
//
// The resolver is a consumed collaborator: the dispatch core only needs
// candidate labels and coordinates to build itinerary stops. Resolution
// failures are non-fatal and degrade to an empty suggestion list.
package geocode

import (
	"context"
	"errors"
)

// MinQueryLength is the minimum number of characters before a search is issued.
const MinQueryLength = 3

// Sentinel errors for geocoding operations.
var (
	// ErrQueryTooShort indicates the search text is below MinQueryLength.
	ErrQueryTooShort = errors.New("search text too short")
	// ErrProviderUnavailable indicates the geocoding provider is unreachable.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
)

// Candidate is one resolved address suggestion.
type Candidate struct {
	Label string  `json:"label"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Resolver defines the interface for address resolution providers.
type Resolver interface {
	// Search returns candidate locations for the given free text.
	Search(ctx context.Context, text string) ([]Candidate, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}
