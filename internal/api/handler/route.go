package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// RouteHandler handles route computation endpoints.
type RouteHandler struct {
	routes *routing.Service
	logger zerolog.Logger
}

// NewRouteHandler creates a new RouteHandler.
func NewRouteHandler(routes *routing.Service, logger zerolog.Logger) *RouteHandler {
	return &RouteHandler{
		routes: routes,
		logger: logger,
	}
}

// ComputeRoute handles POST /v1/routes:compute - compute a route through an
// ordered stop sequence.
//
// Provider failures are non-fatal: the response carries the last
// successfully computed solution plus a warning, so the caller can keep the
// previous route on screen and retry by editing a stop.
func (h *RouteHandler) ComputeRoute(w http.ResponseWriter, r *http.Request) {
	var input models.RouteComputeRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if len(input.Points) == 0 {
		response.BadRequest(w, r, "points is required", []models.FieldError{
			{Field: "points", Message: "is required"},
		})
		return
	}

	solution, err := h.routes.Compute(r.Context(), toGeoPoints(input.Points))
	if err != nil {
		if errors.Is(err, routing.ErrInvalidCoordinates) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		if errors.Is(err, routing.ErrSuperseded) {
			// A newer edit is already being computed; return its
			// predecessor without a warning.
			response.JSON(w, r, http.StatusOK, models.RouteComputeResponse{
				Solution: toAPISolution(solution),
			})
			return
		}

		h.logger.Warn().Err(err).Msg("route computation failed")

		provider := h.routes.ProviderName()
		response.JSON(w, r, http.StatusOK, models.RouteComputeResponse{
			Solution: toAPISolution(solution),
			Warnings: []models.Warning{
				{
					Code:     "ROUTE_PROVIDER_UNAVAILABLE",
					Message:  "route provider failed; showing the last computed route",
					Provider: &provider,
				},
			},
		})
		return
	}

	response.JSON(w, r, http.StatusOK, models.RouteComputeResponse{
		Solution: toAPISolution(solution),
	})
}
