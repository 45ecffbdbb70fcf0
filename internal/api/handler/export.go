package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/export"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// ExportHandler handles trip history export endpoints.
type ExportHandler struct {
	trips     *trip.Service
	generator *export.Generator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(trips *trip.Service, generator *export.Generator, logger zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		trips:     trips,
		generator: generator,
		logger:    logger,
		now:       time.Now,
	}
}

// ExportTrips handles GET /v1/trips/export - download finished trips as a
// spreadsheet. The from, to, and driverId query parameters narrow the
// selection.
func (h *ExportHandler) ExportTrips(w http.ResponseWriter, r *http.Request) {
	filter := export.Filter{
		FromDate: r.URL.Query().Get("from"),
		ToDate:   r.URL.Query().Get("to"),
		DriverID: r.URL.Query().Get("driverId"),
	}

	trips, err := h.trips.List(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load trips for export")
		response.InternalError(w, r, "failed to export trips")
		return
	}

	data, err := h.generator.Generate(trips, filter)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to generate export")
		response.InternalError(w, r, "failed to export trips")
		return
	}

	filename := fmt.Sprintf("trips_%s.xlsx", h.now().Format(trip.DateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn().Err(err).Msg("failed to write export body")
	}
}
