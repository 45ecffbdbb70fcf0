package trip

import "sync"

// Snapshot is the full trip collection at a point in time. Consumers replace
// their view wholesale rather than applying deltas, so a dropped snapshot is
// harmless as long as a newer one arrives.
type Snapshot struct {
	// Seq increases with every publish. Consumers discard snapshots whose
	// sequence number is not greater than the last one they applied.
	Seq   uint64
	Trips []*Trip
}

// Feed fans out trip collection snapshots to subscribers. Delivery is
// latest-wins: each subscriber channel holds at most one pending snapshot,
// and a newer publish replaces an unconsumed older one instead of blocking.
type Feed struct {
	mu   sync.Mutex
	seq  uint64
	next int
	subs map[int]chan Snapshot
}

// NewFeed creates an empty feed.
func NewFeed() *Feed {
	return &Feed{subs: make(map[int]chan Snapshot)}
}

// Subscribe registers a new subscriber. The returned cancel function must be
// called to release the subscription.
func (f *Feed) Subscribe() (<-chan Snapshot, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++

	ch := make(chan Snapshot, 1)
	f.subs[id] = ch

	cancel := func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, ok := f.subs[id]; ok {
			delete(f.subs, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish sends a new snapshot of the full trip collection to all
// subscribers.
func (f *Feed) Publish(trips []*Trip) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	snap := Snapshot{Seq: f.seq, Trips: trips}

	for _, ch := range f.subs {
		// Drop the pending snapshot, if any, before sending the newer one.
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

// SubscriberCount returns the number of active subscribers.
func (f *Feed) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
