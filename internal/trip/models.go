// Package trip provides the persisted dispatch unit and its lifecycle.
package trip

import (
	"errors"
	"fmt"
	"time"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// Repository and lifecycle errors.
var (
	// ErrTripNotFound indicates the trip does not exist.
	ErrTripNotFound = errors.New("trip not found")
	// ErrInvalidTransition indicates the requested status change is not
	// allowed from the trip's current state.
	ErrInvalidTransition = errors.New("invalid trip status transition")
)

// Status is the lifecycle state of a trip.
type Status string

const (
	// StatusAssigned is the initial state: confirmed, driver assigned, not yet started.
	StatusAssigned Status = "ASSIGNED"
	// StatusInProgress means the driver has started the trip.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusCompleted is terminal: the trip finished.
	StatusCompleted Status = "COMPLETED"
	// StatusCancelled is terminal: the trip was cancelled before completion.
	// No operator UI path creates it; it arrives as an external transition.
	StatusCancelled Status = "CANCELLED"
)

// IsTerminal reports whether no further lifecycle transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ServiceType distinguishes immediate dispatch from scheduled trips.
type ServiceType string

const (
	// ServiceImmediate trips dispatch as soon as possible.
	ServiceImmediate ServiceType = "IMMEDIATE"
	// ServiceScheduled trips carry an operator-chosen date and time.
	ServiceScheduled ServiceType = "SCHEDULED"
)

// Valid reports whether t is a known service type.
func (t ServiceType) Valid() bool {
	return t == ServiceImmediate || t == ServiceScheduled
}

// Wall-clock formats used for trip timestamps. Actual start/end times are
// minute-precision strings, final dates are calendar dates.
const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// Trip is the persisted unit of dispatch work. It is created exclusively by
// the planning flow, mutated only by lifecycle transitions and the manual
// time edit, and deleted only by explicit operator action.
//
// TechnicalData is the route solution frozen at confirmation time. Its
// geometry is immutable afterwards: recomputing could differ due to live
// traffic, which would break historical accuracy. Re-planning means a new
// trip.
type Trip struct {
	ID          string
	Client      string
	RequestedBy *string

	DriverID   string
	DriverName string

	ServiceType   ServiceType
	ScheduledDate string // YYYY-MM-DD, scheduled trips only
	ScheduledTime string // HH:MM, scheduled trips only

	Status Status

	// Stops are the itinerary addresses in order, kept for display.
	Stops []string

	// TechnicalData is the frozen route solution (see type comment).
	TechnicalData routing.Solution

	StartTimeActual string // HH:MM, set by Start or manual edit
	EndTimeActual   string // HH:MM, set by Finish or manual edit

	// FinalDate drives chronological sorting on the dispatch board:
	// the scheduled date for scheduled trips, the creation date otherwise.
	FinalDate string // YYYY-MM-DD

	// LastPosition is an externally supplied live coordinate, passed
	// through untouched for the monitor map marker.
	LastPosition *routing.Coordinate

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FieldError names a confirmation field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports the missing or invalid confirmation fields.
// No trip is persisted while it is non-nil.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation failed: %s %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed: %d invalid fields", len(e.Fields))
}
