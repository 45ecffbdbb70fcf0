package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const tripColumns = `
	id, client_name, requested_by,
	driver_id, driver_name,
	service_type, scheduled_date, scheduled_time,
	status, stops,
	segments, total_distance_km, total_duration_min,
	geometry_polyline, route_provider, route_computed_at,
	start_time_actual, end_time_actual, final_date,
	last_position_lat, last_position_lon,
	created_at, updated_at
`

// Create stores a new trip.
func (r *PostgresRepository) Create(ctx context.Context, t *Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	segments, err := json.Marshal(t.TechnicalData.Segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}

	var posLat, posLon *float64
	if t.LastPosition != nil {
		posLat, posLon = &t.LastPosition.Lat, &t.LastPosition.Lon
	}

	_, err = r.pool.Exec(ctx, query,
		t.ID,
		t.Client,
		t.RequestedBy,
		t.DriverID,
		t.DriverName,
		string(t.ServiceType),
		t.ScheduledDate,
		t.ScheduledTime,
		string(t.Status),
		t.Stops,
		segments,
		t.TechnicalData.TotalDistanceKm,
		t.TechnicalData.TotalDurationMin,
		t.TechnicalData.GeometryPolyline,
		t.TechnicalData.Provider,
		t.TechnicalData.ComputedAt,
		t.StartTimeActual,
		t.EndTimeActual,
		t.FinalDate,
		posLat,
		posLon,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

// GetByID retrieves a trip by ID.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`

	t, err := scanTrip(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	return t, nil
}

// List returns all trips ordered by creation time, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]*Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return trips, nil
}

// Update replaces the stored trip record.
func (r *PostgresRepository) Update(ctx context.Context, t *Trip) error {
	query := `
		UPDATE trips SET
			client_name = $2,
			requested_by = $3,
			driver_id = $4,
			driver_name = $5,
			service_type = $6,
			scheduled_date = $7,
			scheduled_time = $8,
			status = $9,
			stops = $10,
			segments = $11,
			total_distance_km = $12,
			total_duration_min = $13,
			geometry_polyline = $14,
			route_provider = $15,
			route_computed_at = $16,
			start_time_actual = $17,
			end_time_actual = $18,
			final_date = $19,
			last_position_lat = $20,
			last_position_lon = $21,
			updated_at = $22
		WHERE id = $1
	`

	segments, err := json.Marshal(t.TechnicalData.Segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}

	var posLat, posLon *float64
	if t.LastPosition != nil {
		posLat, posLon = &t.LastPosition.Lat, &t.LastPosition.Lon
	}

	result, err := r.pool.Exec(ctx, query,
		t.ID,
		t.Client,
		t.RequestedBy,
		t.DriverID,
		t.DriverName,
		string(t.ServiceType),
		t.ScheduledDate,
		t.ScheduledTime,
		string(t.Status),
		t.Stops,
		segments,
		t.TechnicalData.TotalDistanceKm,
		t.TechnicalData.TotalDurationMin,
		t.TechnicalData.GeometryPolyline,
		t.TechnicalData.Provider,
		t.TechnicalData.ComputedAt,
		t.StartTimeActual,
		t.EndTimeActual,
		t.FinalDate,
		posLat,
		posLon,
		t.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// Delete removes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}

	return nil
}

// scanTrip scans a trip from a query result row.
func scanTrip(row pgx.Row) (*Trip, error) {
	var (
		t           Trip
		serviceType string
		status      string
		segments    []byte
		posLat      *float64
		posLon      *float64
	)

	err := row.Scan(
		&t.ID,
		&t.Client,
		&t.RequestedBy,
		&t.DriverID,
		&t.DriverName,
		&serviceType,
		&t.ScheduledDate,
		&t.ScheduledTime,
		&status,
		&t.Stops,
		&segments,
		&t.TechnicalData.TotalDistanceKm,
		&t.TechnicalData.TotalDurationMin,
		&t.TechnicalData.GeometryPolyline,
		&t.TechnicalData.Provider,
		&t.TechnicalData.ComputedAt,
		&t.StartTimeActual,
		&t.EndTimeActual,
		&t.FinalDate,
		&posLat,
		&posLon,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.ServiceType = ServiceType(serviceType)
	t.Status = Status(status)

	if len(segments) > 0 {
		if err := json.Unmarshal(segments, &t.TechnicalData.Segments); err != nil {
			return nil, fmt.Errorf("unmarshal segments: %w", err)
		}
	}

	if posLat != nil && posLon != nil {
		t.LastPosition = &routing.Coordinate{Lat: *posLat, Lon: *posLon}
	}

	return &t, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
