// Package board derives the operator-visible dispatch views from the raw
// trip collection.
package board

import (
	"sort"

	"github.com/fleetdispatch/fleetdispatch/internal/trip"
)

// Mode selects which half of the collection a view shows.
type Mode string

const (
	// ModeActive shows trips still in flight.
	ModeActive Mode = "ACTIVE"
	// ModeHistory shows finished trips.
	ModeHistory Mode = "HISTORY"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeActive || m == ModeHistory
}

// absentDateSentinel sorts trips without a final date after every real date.
const absentDateSentinel = "9999-99-99"

// Project filters and orders the trip collection for display. History keeps
// completed and cancelled trips, active keeps the rest.
//
// Ordering is ascending by final date, with three refinements: trips dated
// today sort before every other date, trips without a date sort last, and on
// equal dates immediate service sorts before scheduled. The sort is stable,
// so otherwise-equal trips keep their relative order.
//
// Project is pure. It never mutates its input and can be re-run on every
// collection or mode change.
func Project(trips []*trip.Trip, mode Mode, today string) []*trip.Trip {
	visible := make([]*trip.Trip, 0, len(trips))
	for _, t := range trips {
		if inMode(t.Status, mode) {
			visible = append(visible, t)
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return less(visible[i], visible[j], today)
	})

	return visible
}

func inMode(s trip.Status, mode Mode) bool {
	if mode == ModeHistory {
		return s.IsTerminal()
	}
	return !s.IsTerminal()
}

func less(a, b *trip.Trip, today string) bool {
	da, db := sortDate(a), sortDate(b)

	// Today's trips jump the queue regardless of lexical date order.
	aToday, bToday := da == today, db == today
	if aToday != bToday {
		return aToday
	}

	if da != db {
		return da < db
	}

	// Same date: immediate dispatch outranks scheduled.
	aImm := a.ServiceType == trip.ServiceImmediate
	bImm := b.ServiceType == trip.ServiceImmediate
	if aImm != bImm {
		return aImm
	}

	return false
}

func sortDate(t *trip.Trip) string {
	if t.FinalDate == "" {
		return absentDateSentinel
	}
	return t.FinalDate
}
