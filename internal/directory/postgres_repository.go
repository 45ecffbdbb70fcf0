package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of DriverRepository and
// ClientRepository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL directory repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// ListDrivers returns all drivers ordered by name.
func (r *PostgresRepository) ListDrivers(ctx context.Context) ([]*Driver, error) {
	query := `SELECT id, name, phone FROM drivers ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.Name, &d.Phone); err != nil {
			return nil, err
		}
		drivers = append(drivers, &d)
	}

	return drivers, rows.Err()
}

// GetDriver retrieves a driver by ID.
func (r *PostgresRepository) GetDriver(ctx context.Context, id string) (*Driver, error) {
	query := `SELECT id, name, phone FROM drivers WHERE id = $1`

	var d Driver
	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.Name, &d.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	return &d, nil
}

// ListClients returns all clients ordered by name, with contacts and
// favorite locations attached.
func (r *PostgresRepository) ListClients(ctx context.Context) ([]*Client, error) {
	query := `SELECT id, name FROM clients ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*Client
	byID := make(map[string]*Client)
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		clients = append(clients, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachContacts(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachLocations(ctx, byID); err != nil {
		return nil, err
	}

	return clients, nil
}

// GetClient retrieves a client by ID with contacts and favorite locations
// attached.
func (r *PostgresRepository) GetClient(ctx context.Context, id string) (*Client, error) {
	query := `SELECT id, name FROM clients WHERE id = $1`

	var c Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	byID := map[string]*Client{c.ID: &c}
	if err := r.attachContacts(ctx, byID); err != nil {
		return nil, err
	}
	if err := r.attachLocations(ctx, byID); err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *PostgresRepository) attachContacts(ctx context.Context, clients map[string]*Client) error {
	if len(clients) == 0 {
		return nil
	}

	ids := make([]string, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}

	query := `
		SELECT client_id, name, phone
		FROM client_contacts
		WHERE client_id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			clientID string
			contact  Contact
		)
		if err := rows.Scan(&clientID, &contact.Name, &contact.Phone); err != nil {
			return err
		}
		if c, ok := clients[clientID]; ok {
			c.Contacts = append(c.Contacts, contact)
		}
	}

	return rows.Err()
}

func (r *PostgresRepository) attachLocations(ctx context.Context, clients map[string]*Client) error {
	if len(clients) == 0 {
		return nil
	}

	ids := make([]string, 0, len(clients))
	for id := range clients {
		ids = append(ids, id)
	}

	query := `
		SELECT client_id, name, address, lat, lon, assigned_to
		FROM client_locations
		WHERE client_id = ANY($1)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			clientID string
			loc      FavoriteLocation
		)
		if err := rows.Scan(&clientID, &loc.Name, &loc.Address, &loc.Lat, &loc.Lon, &loc.AssignedTo); err != nil {
			return err
		}
		if c, ok := clients[clientID]; ok {
			c.Locations = append(c.Locations, loc)
		}
	}

	return rows.Err()
}

// Ensure PostgresRepository implements both repository interfaces.
var (
	_ DriverRepository = (*PostgresRepository)(nil)
	_ ClientRepository = (*PostgresRepository)(nil)
)
