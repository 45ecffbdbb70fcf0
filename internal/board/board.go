package board

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// Board is a stateful consumer of trip collection snapshots. It holds the
// latest snapshot, the current view mode, and the operator's selection, and
// re-derives the visible list on every change.
type Board struct {
	logger zerolog.Logger
	now    func() time.Time

	mu         sync.RWMutex
	mode       Mode
	seq        uint64
	trips      []*trip.Trip
	selectedID string
}

// NewBoard creates a board in active mode with an empty collection.
func NewBoard(logger zerolog.Logger) *Board {
	return &Board{
		logger: logger.With().Str("component", "board").Logger(),
		now:    time.Now,
		mode:   ModeActive,
	}
}

// Run consumes snapshots from the channel until the context is cancelled or
// the channel closes.
func (b *Board) Run(ctx context.Context, snapshots <-chan trip.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			b.Apply(snap)
		}
	}
}

// Apply installs a snapshot as the current collection. Snapshots are applied
// in sequence order only; a stale one is discarded so that an in-flight
// projection from an old snapshot can never overwrite a newer view.
func (b *Board) Apply(snap trip.Snapshot) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if snap.Seq <= b.seq && b.seq != 0 {
		b.logger.Debug().
			Uint64("snapshot_seq", snap.Seq).
			Uint64("current_seq", b.seq).
			Msg("discarding stale snapshot")
		return false
	}

	b.seq = snap.Seq
	b.trips = snap.Trips

	// Refresh the selection in place. It is cleared only when the trip no
	// longer exists in the collection.
	if b.selectedID != "" && b.find(b.selectedID) == nil {
		b.selectedID = ""
	}

	return true
}

// SetMode switches between the active and history views.
func (b *Board) SetMode(mode Mode) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
}

// Mode returns the current view mode.
func (b *Board) Mode() Mode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode
}

// Visible projects the current collection through the current mode.
func (b *Board) Visible() []*trip.Trip {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Project(b.trips, b.mode, b.now().Format(trip.DateLayout))
}

// Select marks a trip as open for detail viewing. Selecting an ID not in the
// collection clears the selection.
func (b *Board) Select(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.find(id) == nil {
		b.selectedID = ""
		return
	}
	b.selectedID = id
}

// Selected returns the currently selected trip from the latest snapshot, or
// nil if nothing is selected.
func (b *Board) Selected() *trip.Trip {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.find(b.selectedID)
}

// find must be called with the lock held.
func (b *Board) find(id string) *trip.Trip {
	if id == "" {
		return nil
	}
	for _, t := range b.trips {
		if t.ID == id {
			return t
		}
	}
	return nil
}
