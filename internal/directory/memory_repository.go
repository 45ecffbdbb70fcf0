package directory

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of both DriverRepository
// and ClientRepository. This is intended for testing. Production should use
// PostgresRepository.
type InMemoryRepository struct {
	mu      sync.RWMutex
	drivers map[string]*Driver
	clients map[string]*Client
}

// NewInMemoryRepository creates a new in-memory directory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		drivers: make(map[string]*Driver),
		clients: make(map[string]*Client),
	}
}

// SeedDriver adds a driver record.
func (r *InMemoryRepository) SeedDriver(d *Driver) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *d
	r.drivers[d.ID] = &cpy
}

// SeedClient adds a client record.
func (r *InMemoryRepository) SeedClient(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *c
	cpy.Contacts = append([]Contact(nil), c.Contacts...)
	cpy.Locations = append([]FavoriteLocation(nil), c.Locations...)
	r.clients[c.ID] = &cpy
}

// ListDrivers returns all drivers ordered by name.
func (r *InMemoryRepository) ListDrivers(_ context.Context) ([]*Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	drivers := make([]*Driver, 0, len(r.drivers))
	for _, d := range r.drivers {
		cpy := *d
		drivers = append(drivers, &cpy)
	}

	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Name < drivers[j].Name
	})

	return drivers, nil
}

// GetDriver retrieves a driver by ID.
func (r *InMemoryRepository) GetDriver(_ context.Context, id string) (*Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.drivers[id]
	if !ok {
		return nil, ErrDriverNotFound
	}

	cpy := *d
	return &cpy, nil
}

// ListClients returns all clients ordered by name.
func (r *InMemoryRepository) ListClients(_ context.Context) ([]*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		cpy := *c
		cpy.Contacts = append([]Contact(nil), c.Contacts...)
		cpy.Locations = append([]FavoriteLocation(nil), c.Locations...)
		clients = append(clients, &cpy)
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].Name < clients[j].Name
	})

	return clients, nil
}

// GetClient retrieves a client by ID.
func (r *InMemoryRepository) GetClient(_ context.Context, id string) (*Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}

	cpy := *c
	cpy.Contacts = append([]Contact(nil), c.Contacts...)
	cpy.Locations = append([]FavoriteLocation(nil), c.Locations...)
	return &cpy, nil
}

// Ensure InMemoryRepository implements both repository interfaces.
var (
	_ DriverRepository = (*InMemoryRepository)(nil)
	_ ClientRepository = (*InMemoryRepository)(nil)
)
