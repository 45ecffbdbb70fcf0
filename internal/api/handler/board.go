package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/board"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// BoardHandler handles dispatch board endpoints.
type BoardHandler struct {
	trips  *trip.Service
	logger zerolog.Logger
	now    func() time.Time
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(trips *trip.Service, logger zerolog.Logger) *BoardHandler {
	return &BoardHandler{
		trips:  trips,
		logger: logger,
		now:    time.Now,
	}
}

// GetBoard handles GET /v1/board - the projected dispatch board.
//
// The mode query parameter selects the view; it defaults to ACTIVE.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	mode := board.ModeActive
	if raw := r.URL.Query().Get("mode"); raw != "" {
		mode = board.Mode(strings.ToUpper(raw))
		if !mode.Valid() {
			response.BadRequest(w, r, "mode must be ACTIVE or HISTORY", []models.FieldError{
				{Field: "mode", Message: "must be ACTIVE or HISTORY"},
			})
			return
		}
	}

	trips, err := h.trips.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load board")
		response.InternalError(w, r, "failed to load board")
		return
	}

	now := h.now()
	projected := board.Project(trips, mode, now.Format(trip.DateLayout))

	response.JSON(w, r, http.StatusOK, models.BoardResponse{
		Mode:        string(mode),
		GeneratedAt: models.Timestamp(now),
		Trips:       toAPITrips(projected),
	})
}

// GetBoardSummary handles GET /v1/board/summary - headline figures for the
// dispatch board.
func (h *BoardHandler) GetBoardSummary(w http.ResponseWriter, r *http.Request) {
	trips, err := h.trips.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load board summary")
		response.InternalError(w, r, "failed to load board summary")
		return
	}

	s := board.Summarize(trips, h.now().Format(trip.DateLayout))

	response.JSON(w, r, http.StatusOK, models.BoardSummary{
		Total:           s.Total,
		Assigned:        s.Assigned,
		InProgress:      s.InProgress,
		Completed:       s.Completed,
		Cancelled:       s.Cancelled,
		CompletedToday:  s.CompletedToday,
		DistanceKmToday: s.DistanceKmToday,
	})
}
