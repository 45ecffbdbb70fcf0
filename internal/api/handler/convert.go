package handler

import (
	"github.com/fleetdispatch/fleetdispatch/internal/api/models"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
	"github.com/fleetdispatch/fleetdispatch/pkg/polyline"
)

// toAPISolution converts a route solution to its API form, decoding the
// stored polyline into display geometry.
func toAPISolution(s routing.Solution) models.RouteSolution {
	out := models.RouteSolution{
		Segments:         make([]models.RouteSegment, 0, len(s.Segments)),
		TotalDistanceKm:  s.TotalDistanceKm,
		TotalDurationMin: s.TotalDurationMin,
		GeometryPolyline: s.GeometryPolyline,
		Provider:         s.Provider,
	}

	for _, seg := range s.Segments {
		out.Segments = append(out.Segments, models.RouteSegment{
			DistanceKm:  seg.DistanceKm,
			DurationMin: seg.DurationMin,
		})
	}

	for _, c := range polyline.Decode(s.GeometryPolyline) {
		out.Geometry = append(out.Geometry, models.Point{Lat: c.Lat, Lon: c.Lon})
	}

	if !s.ComputedAt.IsZero() {
		ts := models.Timestamp(s.ComputedAt)
		out.ComputedAt = &ts
	}

	return out
}

// toDomainSolution converts an API route solution back to the domain form.
// The encoded polyline is the canonical geometry; the decoded points are
// display-only and are not read back.
func toDomainSolution(s models.RouteSolution) routing.Solution {
	out := routing.Solution{
		Segments:         make([]routing.Segment, 0, len(s.Segments)),
		TotalDistanceKm:  s.TotalDistanceKm,
		TotalDurationMin: s.TotalDurationMin,
		GeometryPolyline: s.GeometryPolyline,
		Provider:         s.Provider,
	}

	for _, seg := range s.Segments {
		out.Segments = append(out.Segments, routing.Segment{
			DistanceKm:  seg.DistanceKm,
			DurationMin: seg.DurationMin,
		})
	}

	if s.ComputedAt != nil {
		out.ComputedAt = s.ComputedAt.Time()
	}

	return out
}

// toGeoPoints converts API stop inputs to domain stops.
func toGeoPoints(inputs []models.RoutePointInput) []routing.GeoPoint {
	points := make([]routing.GeoPoint, 0, len(inputs))
	for _, in := range inputs {
		p := routing.GeoPoint{Address: in.Address}
		if in.Point != nil {
			p.Coord = &routing.Coordinate{Lat: in.Point.Lat, Lon: in.Point.Lon}
		}
		points = append(points, p)
	}
	return points
}

// toAPITrip converts a trip to its API form.
func toAPITrip(t *trip.Trip) models.Trip {
	out := models.Trip{
		ID:          t.ID,
		Client:      t.Client,
		RequestedBy: t.RequestedBy,
		Driver: models.TripDriver{
			ID:   t.DriverID,
			Name: t.DriverName,
		},
		ServiceType:     string(t.ServiceType),
		ScheduledDate:   t.ScheduledDate,
		ScheduledTime:   t.ScheduledTime,
		Status:          string(t.Status),
		Stops:           t.Stops,
		TechnicalData:   toAPISolution(t.TechnicalData),
		StartTimeActual: t.StartTimeActual,
		EndTimeActual:   t.EndTimeActual,
		FinalDate:       t.FinalDate,
		CreatedAt:       models.Timestamp(t.CreatedAt),
		UpdatedAt:       models.Timestamp(t.UpdatedAt),
	}

	if t.LastPosition != nil {
		out.LastPosition = &models.Point{Lat: t.LastPosition.Lat, Lon: t.LastPosition.Lon}
	}

	return out
}

// toAPITrips converts a trip slice to its API form.
func toAPITrips(trips []*trip.Trip) []models.Trip {
	items := make([]models.Trip, 0, len(trips))
	for _, t := range trips {
		items = append(items, toAPITrip(t))
	}
	return items
}

// toAPIFieldErrors converts domain validation errors to the problem form.
func toAPIFieldErrors(fields []trip.FieldError) []models.FieldError {
	errs := make([]models.FieldError, 0, len(fields))
	for _, fe := range fields {
		errs = append(errs, models.FieldError{Field: fe.Field, Message: fe.Message})
	}
	return errs
}
