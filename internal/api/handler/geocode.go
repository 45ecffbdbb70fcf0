package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/geocode"
)

// GeocodeHandler handles address search endpoints.
type GeocodeHandler struct {
	geocoder *geocode.Service
	logger   zerolog.Logger
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocoder *geocode.Service, logger zerolog.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocoder: geocoder,
		logger:   logger,
	}
}

// Search handles GET /v1/geocode - resolve free text into address candidates.
func (h *GeocodeHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	candidates, err := h.geocoder.Search(r.Context(), query)
	if err != nil {
		if errors.Is(err, geocode.ErrQueryTooShort) {
			response.BadRequest(w, r, "query must be at least 3 characters", []models.FieldError{
				{Field: "q", Message: "too short"},
			})
			return
		}
		h.logger.Error().Err(err).Msg("address search failed")
		response.InternalError(w, r, "address search failed")
		return
	}

	out := make([]models.GeocodeCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.GeocodeCandidate{
			Label: c.Label,
			Point: models.Point{Lat: c.Lat, Lon: c.Lon},
		})
	}

	response.JSON(w, r, http.StatusOK, models.GeocodeResponse{
		Query:      query,
		Candidates: out,
	})
}
