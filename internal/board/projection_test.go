package board_test

import (
	"testing"

	"github.com/fleetdispatch/fleetdispatch/internal/board"
	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

const today = "2026-08-31"

func tripWith(id string, status trip.Status, finalDate string, serviceType trip.ServiceType) *trip.Trip {
	return &trip.Trip{
		ID:          id,
		Status:      status,
		FinalDate:   finalDate,
		ServiceType: serviceType,
	}
}

func ids(trips []*trip.Trip) []string {
	out := make([]string, len(trips))
	for i, t := range trips {
		out[i] = t.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*trip.Trip, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d trips, got %v", len(want), ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("expected order %v, got %v", want, ids(got))
		}
	}
}

func TestProject_ModeFilter(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_assigned", trip.StatusAssigned, today, trip.ServiceImmediate),
		tripWith("trp_progress", trip.StatusInProgress, today, trip.ServiceImmediate),
		tripWith("trp_done", trip.StatusCompleted, today, trip.ServiceImmediate),
		tripWith("trp_cancelled", trip.StatusCancelled, today, trip.ServiceImmediate),
	}

	active := board.Project(trips, board.ModeActive, today)
	assertOrder(t, active, "trp_assigned", "trp_progress")

	history := board.Project(trips, board.ModeHistory, today)
	assertOrder(t, history, "trp_done", "trp_cancelled")
}

func TestProject_SortsAscendingByFinalDate(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_sep", trip.StatusAssigned, "2026-09-10", trip.ServiceScheduled),
		tripWith("trp_oct", trip.StatusAssigned, "2026-10-01", trip.ServiceScheduled),
		tripWith("trp_early_sep", trip.StatusAssigned, "2026-09-01", trip.ServiceScheduled),
	}

	got := board.Project(trips, board.ModeActive, today)
	assertOrder(t, got, "trp_early_sep", "trp_sep", "trp_oct")
}

func TestProject_TodayJumpsTheQueue(t *testing.T) {
	// A past-dated trip would normally sort before today's date, but the
	// today rule overrides lexical order.
	trips := []*trip.Trip{
		tripWith("trp_past", trip.StatusAssigned, "2026-08-01", trip.ServiceScheduled),
		tripWith("trp_today", trip.StatusAssigned, today, trip.ServiceScheduled),
		tripWith("trp_future", trip.StatusAssigned, "2026-09-10", trip.ServiceScheduled),
	}

	got := board.Project(trips, board.ModeActive, today)
	assertOrder(t, got, "trp_today", "trp_past", "trp_future")
}

func TestProject_UndatedTripsSortLast(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_undated", trip.StatusAssigned, "", trip.ServiceImmediate),
		tripWith("trp_dated", trip.StatusAssigned, "2026-12-31", trip.ServiceScheduled),
	}

	got := board.Project(trips, board.ModeActive, today)
	assertOrder(t, got, "trp_dated", "trp_undated")
}

func TestProject_ImmediateBeatsScheduledOnEqualDates(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_sched", trip.StatusAssigned, today, trip.ServiceScheduled),
		tripWith("trp_imm", trip.StatusAssigned, today, trip.ServiceImmediate),
	}

	got := board.Project(trips, board.ModeActive, today)
	assertOrder(t, got, "trp_imm", "trp_sched")
}

func TestProject_StableForEqualKeys(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_first", trip.StatusAssigned, today, trip.ServiceImmediate),
		tripWith("trp_second", trip.StatusAssigned, today, trip.ServiceImmediate),
		tripWith("trp_third", trip.StatusAssigned, today, trip.ServiceImmediate),
	}

	got := board.Project(trips, board.ModeActive, today)
	assertOrder(t, got, "trp_first", "trp_second", "trp_third")
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_b", trip.StatusAssigned, "2026-10-01", trip.ServiceScheduled),
		tripWith("trp_a", trip.StatusAssigned, "2026-09-01", trip.ServiceScheduled),
	}

	board.Project(trips, board.ModeActive, today)

	if trips[0].ID != "trp_b" || trips[1].ID != "trp_a" {
		t.Errorf("expected input order untouched, got %v", ids(trips))
	}
}

func TestSummarize(t *testing.T) {
	trips := []*trip.Trip{
		tripWith("trp_1", trip.StatusAssigned, today, trip.ServiceImmediate),
		tripWith("trp_2", trip.StatusInProgress, today, trip.ServiceImmediate),
		tripWith("trp_3", trip.StatusCompleted, today, trip.ServiceImmediate),
		tripWith("trp_4", trip.StatusCompleted, "2026-08-30", trip.ServiceScheduled),
		tripWith("trp_5", trip.StatusCancelled, today, trip.ServiceImmediate),
	}
	trips[2].TechnicalData.TotalDistanceKm = 12.5

	s := board.Summarize(trips, today)

	if s.Total != 5 {
		t.Errorf("expected total 5, got %d", s.Total)
	}
	if s.Assigned != 1 || s.InProgress != 1 || s.Completed != 2 || s.Cancelled != 1 {
		t.Errorf("unexpected status counts: %+v", s)
	}
	if s.CompletedToday != 1 {
		t.Errorf("expected 1 completed today, got %d", s.CompletedToday)
	}
	if s.DistanceKmToday != 12.5 {
		t.Errorf("expected 12.5 km today, got %v", s.DistanceKmToday)
	}
}
