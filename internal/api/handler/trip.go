package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/directory"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// TripHandler handles trip lifecycle endpoints.
type TripHandler struct {
	trips   *trip.Service
	drivers directory.DriverRepository
	logger  zerolog.Logger
}

// NewTripHandler creates a new TripHandler.
func NewTripHandler(trips *trip.Service, drivers directory.DriverRepository, logger zerolog.Logger) *TripHandler {
	return &TripHandler{
		trips:   trips,
		drivers: drivers,
		logger:  logger,
	}
}

// CreateTrip handles POST /v1/trips - confirm a planned trip.
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var input models.TripCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	driver, err := h.drivers.GetDriver(r.Context(), input.DriverID)
	if err != nil {
		if errors.Is(err, directory.ErrDriverNotFound) {
			response.BadRequest(w, r, "unknown driver", []models.FieldError{
				{Field: "driverId", Message: "unknown driver"},
			})
			return
		}
		h.logger.Error().Err(err).Msg("driver lookup failed")
		response.InternalError(w, r, "failed to create trip")
		return
	}

	created, err := h.trips.Create(r.Context(), &trip.CreateInput{
		Client:        input.Client,
		RequestedBy:   input.RequestedBy,
		DriverID:      driver.ID,
		DriverName:    driver.Name,
		ServiceType:   trip.ServiceType(input.ServiceType),
		ScheduledDate: input.ScheduledDate,
		ScheduledTime: input.ScheduledTime,
		Stops:         toGeoPoints(input.Stops),
		Solution:      toDomainSolution(input.TechnicalData),
	})
	if err != nil {
		var vErr *trip.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, r, "validation failed", toAPIFieldErrors(vErr.Fields))
			return
		}
		h.logger.Error().Err(err).Msg("failed to create trip")
		response.InternalError(w, r, "failed to create trip")
		return
	}

	location := fmt.Sprintf("/v1/trips/%s", created.ID)
	response.Created(w, r, location, toAPITrip(created))
}

// ListTrips handles GET /v1/trips - list all trips, newest first.
func (h *TripHandler) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list trips")
		response.InternalError(w, r, "failed to list trips")
		return
	}

	response.JSON(w, r, http.StatusOK, models.TripList{Items: toAPITrips(trips)})
}

// GetTrip handles GET /v1/trips/{tripId} - get a single trip.
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	t, err := h.trips.Get(r.Context(), tripID)
	if err != nil {
		h.writeTripError(w, r, tripID, err, "failed to get trip")
		return
	}

	response.JSON(w, r, http.StatusOK, toAPITrip(t))
}

// StartTrip handles POST /v1/trips/{tripId}:start - record the driver
// starting the trip.
func (h *TripHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trips.Start, "failed to start trip")
}

// FinishTrip handles POST /v1/trips/{tripId}:finish - record the driver
// finishing the trip.
func (h *TripHandler) FinishTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trips.Finish, "failed to finish trip")
}

// CancelTrip handles POST /v1/trips/{tripId}:cancel - cancel the trip.
func (h *TripHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trips.Cancel, "failed to cancel trip")
}

// transition runs a lifecycle operation addressed by the tripId URL param.
func (h *TripHandler) transition(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (*trip.Trip, error), failMsg string) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	t, err := op(r.Context(), tripID)
	if err != nil {
		h.writeTripError(w, r, tripID, err, failMsg)
		return
	}

	response.JSON(w, r, http.StatusOK, toAPITrip(t))
}

// PatchTripTimes handles PATCH /v1/trips/{tripId}/times - manually edit
// the recorded start and end times.
func (h *TripHandler) PatchTripTimes(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	var input models.TripTimesPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	t, err := h.trips.EditTimes(r.Context(), tripID, trip.TimePatch{
		Start: input.StartTimeActual,
		End:   input.EndTimeActual,
	})
	if err != nil {
		h.writeTripError(w, r, tripID, err, "failed to edit trip times")
		return
	}

	response.JSON(w, r, http.StatusOK, toAPITrip(t))
}

// UpdateTripPosition handles PUT /v1/trips/{tripId}/position - record the
// vehicle's last known position.
func (h *TripHandler) UpdateTripPosition(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	var input models.TripPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	t, err := h.trips.UpdatePosition(r.Context(), tripID, routing.Coordinate{
		Lat: input.Point.Lat,
		Lon: input.Point.Lon,
	})
	if err != nil {
		h.writeTripError(w, r, tripID, err, "failed to update trip position")
		return
	}

	response.JSON(w, r, http.StatusOK, toAPITrip(t))
}

// DeleteTrip handles DELETE /v1/trips/{tripId} - delete a trip.
func (h *TripHandler) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripId")
	if tripID == "" {
		response.BadRequest(w, r, "tripId is required", nil)
		return
	}

	if err := h.trips.Delete(r.Context(), tripID); err != nil {
		h.writeTripError(w, r, tripID, err, "failed to delete trip")
		return
	}

	response.NoContent(w, r)
}

// writeTripError maps domain errors to problem responses.
func (h *TripHandler) writeTripError(w http.ResponseWriter, r *http.Request, tripID string, err error, failMsg string) {
	switch {
	case errors.Is(err, trip.ErrTripNotFound):
		response.NotFound(w, r, "trip not found")
	case errors.Is(err, trip.ErrInvalidTransition):
		response.Conflict(w, r, err.Error())
	default:
		var vErr *trip.ValidationError
		if errors.As(err, &vErr) {
			response.BadRequest(w, r, "validation failed", toAPIFieldErrors(vErr.Fields))
			return
		}
		h.logger.Error().Err(err).Str("trip_id", tripID).Msg(failMsg)
		response.InternalError(w, r, failMsg)
	}
}
