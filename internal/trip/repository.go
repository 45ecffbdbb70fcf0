package trip

import "context"

// Repository persists trips. Implementations must be safe for concurrent use.
type Repository interface {
	// Create stores a new trip.
	Create(ctx context.Context, t *Trip) error

	// GetByID retrieves a trip, returning ErrTripNotFound if it does not exist.
	GetByID(ctx context.Context, id string) (*Trip, error)

	// List returns all trips ordered by creation time, newest first.
	List(ctx context.Context) ([]*Trip, error)

	// Update replaces the stored trip record, returning ErrTripNotFound
	// if it does not exist.
	Update(ctx context.Context, t *Trip) error

	// Delete removes a trip, returning ErrTripNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
