package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetdispatch/fleetdispatch/internal/api"
	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/directory"
	"github.com/fleetdispatch/fleetdispatch/internal/geocode"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// stubProvider returns one leg per consecutive coordinate pair.
type stubProvider struct {
	err error
}

func (p *stubProvider) Route(_ context.Context, points []routing.Coordinate) (*routing.ProviderRoute, error) {
	if p.err != nil {
		return nil, p.err
	}
	legs := make([]routing.Leg, 0, len(points)-1)
	for i := 0; i < len(points)-1; i++ {
		legs = append(legs, routing.Leg{DistanceMeters: 2500, DurationSeconds: 300})
	}
	return &routing.ProviderRoute{Legs: legs, GeometryPolyline: "_p~iF~ps|U_ulLnnqC"}, nil
}

func (p *stubProvider) Name() string { return "stub" }

// stubResolver returns a single fixed candidate.
type stubResolver struct{}

func (r *stubResolver) Search(_ context.Context, text string) ([]geocode.Candidate, error) {
	return []geocode.Candidate{{Label: text + ", Ciudad de México", Lat: 19.43, Lon: -99.13}}, nil
}

func (r *stubResolver) Name() string { return "stub" }

func testDirectory() *directory.InMemoryRepository {
	repo := directory.NewInMemoryRepository()
	repo.SeedDriver(&directory.Driver{ID: "drv_ana", Name: "Ana Sosa", Phone: "+52 55 1234 5678"})
	repo.SeedClient(&directory.Client{
		ID:   "cli_acme",
		Name: "Acme Logistics",
		Locations: []directory.FavoriteLocation{
			{Name: "Bodega", Address: "Av. Central 12", Lat: 19.44, Lon: -99.14, AssignedTo: directory.FavoriteAssigneeGeneral},
			{Name: "Oficina Laura", Address: "Reforma 222", Lat: 19.42, Lon: -99.16, AssignedTo: "Laura"},
		},
	})
	return repo
}

func newTestRouter() http.Handler {
	logger := zerolog.New(io.Discard)
	dir := testDirectory()
	return api.NewRouter(api.RouterConfig{
		Version:   "test",
		BuildTime: "2024-01-01T00:00:00Z",
		Logger:    logger,
		TripService: trip.NewService(
			trip.NewInMemoryRepository(),
			trip.NewFeed(),
			logger,
		),
		RoutingService: routing.NewService(routing.ServiceConfig{
			Provider: &stubProvider{},
			Logger:   logger,
		}),
		GeocodeService: geocode.NewService(geocode.ServiceConfig{
			Resolver: &stubResolver{},
			Logger:   logger,
		}),
		Drivers: dir,
		Clients: dir,
	})
}

func createTestTrip(t *testing.T, router http.Handler, serviceType string) models.Trip {
	t.Helper()

	input := models.TripCreateRequest{
		Client:      "Acme Logistics",
		DriverID:    "drv_ana",
		ServiceType: serviceType,
		Stops: []models.RoutePointInput{
			{Address: "Av. Central 12", Point: &models.Point{Lat: 19.44, Lon: -99.14}},
			{Address: "Reforma 222", Point: &models.Point{Lat: 19.42, Lon: -99.16}},
		},
		TechnicalData: models.RouteSolution{
			Segments:         []models.RouteSegment{{DistanceKm: 2.5, DurationMin: 5}},
			TotalDistanceKm:  2.5,
			TotalDurationMin: 5,
			GeometryPolyline: "_p~iF~ps|U_ulLnnqC",
			Provider:         "stub",
		},
	}
	if serviceType == "SCHEDULED" {
		input.ScheduledDate = "2026-09-15"
		input.ScheduledTime = "14:30"
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	return created
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_ComputeRoute(t *testing.T) {
	router := newTestRouter()

	input := models.RouteComputeRequest{
		Points: []models.RoutePointInput{
			{Address: "A", Point: &models.Point{Lat: 19.44, Lon: -99.14}},
			{Address: "B", Point: &models.Point{Lat: 19.42, Lon: -99.16}},
			{Address: "C", Point: &models.Point{Lat: 19.40, Lon: -99.18}},
		},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.RouteComputeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Len(t, resp.Solution.Segments, 2)
	assert.Equal(t, 5.0, resp.Solution.TotalDistanceKm)
	assert.Equal(t, 10, resp.Solution.TotalDurationMin)
	assert.NotEmpty(t, resp.Solution.Geometry)
	assert.Empty(t, resp.Warnings)
}

func TestRouter_ComputeRoute_NoPoints(t *testing.T) {
	router := newTestRouter()

	body, _ := json.Marshal(models.RouteComputeRequest{})

	req := httptest.NewRequest(http.MethodPost, "/v1/routes:compute", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var problem models.Problem
	err := json.Unmarshal(w.Body.Bytes(), &problem)
	require.NoError(t, err)

	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_Geocode(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/geocode?q=Reforma", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.GeocodeResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)

	assert.Equal(t, "Reforma", resp.Query)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Reforma, Ciudad de México", resp.Candidates[0].Label)
}

func TestRouter_Geocode_QueryTooShort(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/geocode?q=ab", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CreateTrip(t *testing.T) {
	router := newTestRouter()

	created := createTestTrip(t, router, "IMMEDIATE")

	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Acme Logistics", created.Client)
	assert.Equal(t, "Ana Sosa", created.Driver.Name)
	assert.Equal(t, "ASSIGNED", created.Status)
	assert.Equal(t, 2.5, created.TechnicalData.TotalDistanceKm)
}

func TestRouter_CreateTrip_UnknownDriver(t *testing.T) {
	router := newTestRouter()

	input := models.TripCreateRequest{
		Client:      "Acme Logistics",
		DriverID:    "drv_nobody",
		ServiceType: "IMMEDIATE",
		Stops: []models.RoutePointInput{
			{Address: "A", Point: &models.Point{Lat: 19.44, Lon: -99.14}},
			{Address: "B", Point: &models.Point{Lat: 19.42, Lon: -99.16}},
		},
	}
	body, _ := json.Marshal(input)

	req := httptest.NewRequest(http.MethodPost, "/v1/trips", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_TripLifecycle(t *testing.T) {
	router := newTestRouter()
	created := createTestTrip(t, router, "IMMEDIATE")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/trips/%s:start", created.ID), http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var started models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	assert.Equal(t, "IN_PROGRESS", started.Status)
	assert.NotEmpty(t, started.StartTimeActual)

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/trips/%s:finish", created.ID), http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var finished models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &finished))
	assert.Equal(t, "COMPLETED", finished.Status)
	assert.NotEmpty(t, finished.EndTimeActual)
}

func TestRouter_FinishBeforeStart_Conflict(t *testing.T) {
	router := newTestRouter()
	created := createTestTrip(t, router, "IMMEDIATE")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/trips/%s:finish", created.ID), http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRouter_PatchTripTimes(t *testing.T) {
	router := newTestRouter()
	created := createTestTrip(t, router, "IMMEDIATE")

	start := "08:15"
	body, _ := json.Marshal(models.TripTimesPatchRequest{StartTimeActual: &start})

	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/v1/trips/%s/times", created.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var patched models.Trip
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &patched))
	assert.Equal(t, "08:15", patched.StartTimeActual)
	assert.Equal(t, "IN_PROGRESS", patched.Status)
}

func TestRouter_GetTrip_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/trips/trp_missing", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_DeleteTrip(t *testing.T) {
	router := newTestRouter()
	created := createTestTrip(t, router, "IMMEDIATE")

	req := httptest.NewRequest(http.MethodDelete, "/v1/trips/"+created.ID, http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/trips/"+created.ID, http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Board(t *testing.T) {
	router := newTestRouter()
	createTestTrip(t, router, "IMMEDIATE")

	req := httptest.NewRequest(http.MethodGet, "/v1/board", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var board models.BoardResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &board))
	assert.Equal(t, "ACTIVE", board.Mode)
	assert.Len(t, board.Trips, 1)
}

func TestRouter_Board_InvalidMode(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/board?mode=future", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_BoardSummary(t *testing.T) {
	router := newTestRouter()
	createTestTrip(t, router, "IMMEDIATE")

	req := httptest.NewRequest(http.MethodGet, "/v1/board/summary", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var summary models.BoardSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Assigned)
}

func TestRouter_ListDrivers(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/directory/drivers", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var drivers models.DriverList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &drivers))
	require.Len(t, drivers.Items, 1)
	assert.Equal(t, "Ana Sosa", drivers.Items[0].Name)
}

func TestRouter_ClientFavorites_Scoped(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/directory/clients/cli_acme/favorites?requestedBy=Laura", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var favorites models.FavoriteList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	assert.Len(t, favorites.Items, 2)
}

func TestRouter_ClientFavorites_SharedOnly(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/directory/clients/cli_acme/favorites", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var favorites models.FavoriteList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &favorites))
	require.Len(t, favorites.Items, 1)
	assert.Equal(t, "Bodega", favorites.Items[0].Name)
}

func TestRouter_ExportTrips(t *testing.T) {
	router := newTestRouter()
	created := createTestTrip(t, router, "IMMEDIATE")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/trips/%s:start", created.ID), http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/trips/%s:finish", created.ID), http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/trips/export", http.NoBody)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
