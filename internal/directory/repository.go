package directory

import "context"

// DriverRepository provides read access to driver records.
type DriverRepository interface {
	// ListDrivers returns all drivers ordered by name.
	ListDrivers(ctx context.Context) ([]*Driver, error)

	// GetDriver retrieves a driver, returning ErrDriverNotFound if it
	// does not exist.
	GetDriver(ctx context.Context, id string) (*Driver, error)
}

// ClientRepository provides read access to client records, including their
// sub-contacts and favorite locations.
type ClientRepository interface {
	// ListClients returns all clients ordered by name.
	ListClients(ctx context.Context) ([]*Client, error)

	// GetClient retrieves a client, returning ErrClientNotFound if it
	// does not exist.
	GetClient(ctx context.Context, id string) (*Client, error)
}
