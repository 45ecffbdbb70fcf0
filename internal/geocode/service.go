package geocode

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Resolver is the address resolution provider.
	Resolver Resolver

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service wraps a Resolver with query gating and graceful degradation.
type Service struct {
	resolver Resolver
	logger   zerolog.Logger
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		resolver: cfg.Resolver,
		logger:   cfg.Logger,
	}
}

// Search returns candidate locations for the given text.
//
// Queries shorter than MinQueryLength return ErrQueryTooShort without
// calling the provider. Provider failures are logged and surface as an
// empty candidate list: no suggestions, not a hard error.
func (s *Service) Search(ctx context.Context, text string) ([]Candidate, error) {
	text = strings.TrimSpace(text)
	if len([]rune(text)) < MinQueryLength {
		return nil, ErrQueryTooShort
	}

	candidates, err := s.resolver.Search(ctx, text)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("provider", s.resolver.Name()).
			Msg("address search failed, degrading to no suggestions")
		return []Candidate{}, nil
	}

	return candidates, nil
}
