package trip

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
	}
}

// Create stores a new trip.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// GetByID retrieves a trip by ID.
func (r *InMemoryRepository) GetByID(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}

	// Return a copy
	cpy := *t
	return &cpy, nil
}

// List returns all trips ordered by creation time, newest first.
func (r *InMemoryRepository) List(_ context.Context) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := make([]*Trip, 0, len(r.trips))
	for _, t := range r.trips {
		cpy := *t
		trips = append(trips, &cpy)
	}

	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].CreatedAt.After(trips[j].CreatedAt)
	})

	return trips, nil
}

// Update replaces an existing trip record.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}

	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// Delete removes a trip by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[id]; !ok {
		return ErrTripNotFound
	}

	delete(r.trips, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
