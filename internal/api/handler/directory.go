package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/directory"
	"github.com/fleetdispatch/fleetdispatch/internal/itinerary"
)

// DirectoryHandler handles driver and client directory endpoints.
type DirectoryHandler struct {
	drivers directory.DriverRepository
	clients directory.ClientRepository
	logger  zerolog.Logger
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(drivers directory.DriverRepository, clients directory.ClientRepository, logger zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		drivers: drivers,
		clients: clients,
		logger:  logger,
	}
}

// ListDrivers handles GET /v1/directory/drivers - list the driver roster.
func (h *DirectoryHandler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	drivers, err := h.drivers.ListDrivers(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list drivers")
		response.InternalError(w, r, "failed to list drivers")
		return
	}

	items := make([]models.Driver, 0, len(drivers))
	for _, d := range drivers {
		items = append(items, models.Driver{ID: d.ID, Name: d.Name, Phone: d.Phone})
	}

	response.JSON(w, r, http.StatusOK, models.DriverList{Items: items})
}

// ListClients handles GET /v1/directory/clients - list known clients.
func (h *DirectoryHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.ListClients(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list clients")
		response.InternalError(w, r, "failed to list clients")
		return
	}

	items := make([]models.Client, 0, len(clients))
	for _, c := range clients {
		items = append(items, toAPIClient(c))
	}

	response.JSON(w, r, http.StatusOK, models.ClientList{Items: items})
}

// GetClientFavorites handles GET /v1/directory/clients/{clientId}/favorites -
// the favorite locations visible to a requester.
//
// The optional requestedBy query parameter scopes the list; without it only
// shared favorites are returned.
func (h *DirectoryHandler) GetClientFavorites(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientId")
	if clientID == "" {
		response.BadRequest(w, r, "clientId is required", nil)
		return
	}

	client, err := h.clients.GetClient(r.Context(), clientID)
	if err != nil {
		if errors.Is(err, directory.ErrClientNotFound) {
			response.NotFound(w, r, "client not found")
			return
		}
		h.logger.Error().Err(err).Str("client_id", clientID).Msg("failed to get client")
		response.InternalError(w, r, "failed to get client favorites")
		return
	}

	var requestedBy *string
	if raw := strings.TrimSpace(r.URL.Query().Get("requestedBy")); raw != "" {
		requestedBy = &raw
	}

	visible := itinerary.VisibleFavorites(client.Locations, requestedBy)

	items := make([]models.FavoriteLocation, 0, len(visible))
	for _, loc := range visible {
		items = append(items, toAPIFavorite(loc))
	}

	response.JSON(w, r, http.StatusOK, models.FavoriteList{Items: items})
}

func toAPIClient(c *directory.Client) models.Client {
	out := models.Client{
		ID:   c.ID,
		Name: c.Name,
	}
	for _, contact := range c.Contacts {
		out.Contacts = append(out.Contacts, models.Contact{Name: contact.Name, Phone: contact.Phone})
	}
	for _, loc := range c.Locations {
		out.Locations = append(out.Locations, toAPIFavorite(loc))
	}
	return out
}

func toAPIFavorite(loc directory.FavoriteLocation) models.FavoriteLocation {
	return models.FavoriteLocation{
		Name:       loc.Name,
		Address:    loc.Address,
		Point:      models.Point{Lat: loc.Lat, Lon: loc.Lon},
		AssignedTo: loc.AssignedTo,
	}
}
