// Package handler provides HTTP handlers for the FleetDispatch API.
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/api/response"
	"github.com/fleetdispatch/fleetdispatch/internal/provider/resilience"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	db        Pinger
}

// NewOpsHandler creates a new OpsHandler. The registry and db may be nil
// when the corresponding checks are not wanted.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, db Pinger) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		db:        db,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}

	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			health.Status = models.HealthStatusFail
			health.Details = map[string]interface{}{"database": err.Error()}
			response.JSON(w, r, http.StatusServiceUnavailable, health)
			return
		}
	}

	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	now := models.Timestamp(time.Now())

	status := models.SystemStatus{
		Status: models.HealthStatusOK,
		Time:   now,
	}

	dbStatus := models.SubsystemStatus{Name: "postgres", Status: models.HealthStatusOK}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			msg := err.Error()
			dbStatus.Status = models.HealthStatusFail
			dbStatus.Detail = &msg
			status.Status = models.HealthStatusFail
		}
	}
	status.Subsystems = append(status.Subsystems, dbStatus)

	if h.registry != nil {
		providers := h.registry.GetAllHealth()
		sort.Slice(providers, func(i, j int) bool {
			return providers[i].Name < providers[j].Name
		})

		for _, p := range providers {
			status.Providers = append(status.Providers, providerStatus(p))
			if !p.IsHealthy() && status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(p *resilience.ProviderHealth) models.ProviderStatus {
	ps := models.ProviderStatus{
		Provider: p.Name,
		Status:   models.HealthStatusOK,
	}

	switch {
	case p.IsUnhealthy():
		ps.Status = models.HealthStatusFail
	case p.IsDegraded():
		ps.Status = models.HealthStatusDegraded
	}

	if p.LastSuccessAt != nil {
		ts := models.Timestamp(*p.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if p.LastFailureAt != nil {
		ts := models.Timestamp(*p.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	if p.LastError != "" {
		msg := p.LastError
		ps.Message = &msg
	}

	return ps
}
