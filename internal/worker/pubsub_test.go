package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

type fakeTrips struct {
	started   []string
	finished  []string
	positions map[string]routing.Coordinate
	err       error
}

func (f *fakeTrips) Start(_ context.Context, id string) (*trip.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.started = append(f.started, id)
	return &trip.Trip{ID: id, Status: trip.StatusInProgress}, nil
}

func (f *fakeTrips) Finish(_ context.Context, id string) (*trip.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.finished = append(f.finished, id)
	return &trip.Trip{ID: id, Status: trip.StatusCompleted}, nil
}

func (f *fakeTrips) UpdatePosition(_ context.Context, id string, pos routing.Coordinate) (*trip.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.positions == nil {
		f.positions = make(map[string]routing.Coordinate)
	}
	f.positions[id] = pos
	return &trip.Trip{ID: id, LastPosition: &pos}, nil
}

func TestDispatch_LifecycleEvents(t *testing.T) {
	trips := &fakeTrips{}
	h := &PubSubHandler{trips: trips}
	ctx := context.Background()

	if err := h.Dispatch(ctx, DriverEvent{EventType: EventTripStarted, TripID: "trp_1"}); err != nil {
		t.Fatalf("failed to dispatch start event: %v", err)
	}
	if err := h.Dispatch(ctx, DriverEvent{EventType: EventTripFinished, TripID: "trp_1"}); err != nil {
		t.Fatalf("failed to dispatch finish event: %v", err)
	}

	if len(trips.started) != 1 || trips.started[0] != "trp_1" {
		t.Errorf("expected start applied to trp_1, got %v", trips.started)
	}
	if len(trips.finished) != 1 || trips.finished[0] != "trp_1" {
		t.Errorf("expected finish applied to trp_1, got %v", trips.finished)
	}
}

func TestDispatch_PositionEvent(t *testing.T) {
	trips := &fakeTrips{}
	h := &PubSubHandler{trips: trips}

	lat, lon := 19.41, -99.14
	err := h.Dispatch(context.Background(), DriverEvent{
		EventType: EventPositionUpdate,
		TripID:    "trp_1",
		Lat:       &lat,
		Lon:       &lon,
	})
	if err != nil {
		t.Fatalf("failed to dispatch position event: %v", err)
	}

	pos, ok := trips.positions["trp_1"]
	if !ok || pos.Lat != lat || pos.Lon != lon {
		t.Errorf("expected position passthrough, got %+v", trips.positions)
	}
}

func TestDispatch_PositionEventWithoutCoordinates(t *testing.T) {
	h := &PubSubHandler{trips: &fakeTrips{}}

	err := h.Dispatch(context.Background(), DriverEvent{EventType: EventPositionUpdate, TripID: "trp_1"})
	if err == nil {
		t.Fatal("expected error for position event without coordinates")
	}
	if retryable(err) {
		t.Error("expected malformed position event to be non-retryable")
	}
}

func TestDispatch_UnknownEventType(t *testing.T) {
	h := &PubSubHandler{trips: &fakeTrips{}}

	err := h.Dispatch(context.Background(), DriverEvent{EventType: "door_opened", TripID: "trp_1"})
	if err == nil {
		t.Fatal("expected error for unknown event type")
	}
	if retryable(err) {
		t.Error("expected unknown event to be non-retryable")
	}
}

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "invalid transition is dropped",
			err:  trip.ErrInvalidTransition,
			want: false,
		},
		{
			name: "missing trip is dropped",
			err:  trip.ErrTripNotFound,
			want: false,
		},
		{
			name: "wrapped sentinel is dropped",
			err:  errors.Join(errors.New("context"), trip.ErrTripNotFound),
			want: false,
		},
		{
			name: "transient failure is retried",
			err:  errors.New("connection reset"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryable(tt.err); got != tt.want {
				t.Errorf("retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestDispatch_RedeliveredLifecycleEventIsDropped(t *testing.T) {
	trips := &fakeTrips{err: trip.ErrInvalidTransition}
	h := &PubSubHandler{trips: trips}

	err := h.Dispatch(context.Background(), DriverEvent{EventType: EventTripStarted, TripID: "trp_1"})
	if !errors.Is(err, trip.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if retryable(err) {
		t.Error("expected redelivered lifecycle event to be non-retryable")
	}
}
