// Package itinerary provides the mutable stop-sequence builder used while a
// trip is being planned, before confirmation freezes it into a trip record.
package itinerary

import (
	"errors"

	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// ErrWaypointIndex indicates a waypoint index outside the current sequence.
var ErrWaypointIndex = errors.New("waypoint index out of range")

// Builder is an ordered stop sequence under construction: an origin, zero or
// more waypoints, and a destination. Stops may be transiently unresolved
// (address typed, coordinates pending) while being edited; unresolved stops
// are excluded from route computation until resolved.
//
// Builder is not safe for concurrent use. Each planning session owns one.
type Builder struct {
	origin      routing.GeoPoint
	waypoints   []routing.GeoPoint
	destination routing.GeoPoint
}

// NewBuilder creates an empty itinerary builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// SetOrigin replaces the origin stop.
func (b *Builder) SetOrigin(p routing.GeoPoint) {
	b.origin = p
}

// SetDestination replaces the destination stop.
func (b *Builder) SetDestination(p routing.GeoPoint) {
	b.destination = p
}

// InsertWaypoint inserts an empty waypoint at the given position.
// Index len(waypoints) appends.
func (b *Builder) InsertWaypoint(index int) error {
	if index < 0 || index > len(b.waypoints) {
		return ErrWaypointIndex
	}

	b.waypoints = append(b.waypoints, routing.GeoPoint{})
	copy(b.waypoints[index+1:], b.waypoints[index:])
	b.waypoints[index] = routing.GeoPoint{}
	return nil
}

// RemoveWaypoint removes the waypoint at the given position.
func (b *Builder) RemoveWaypoint(index int) error {
	if index < 0 || index >= len(b.waypoints) {
		return ErrWaypointIndex
	}

	b.waypoints = append(b.waypoints[:index], b.waypoints[index+1:]...)
	return nil
}

// UpdateWaypoint replaces the waypoint at the given position.
func (b *Builder) UpdateWaypoint(index int, p routing.GeoPoint) error {
	if index < 0 || index >= len(b.waypoints) {
		return ErrWaypointIndex
	}

	b.waypoints[index] = p
	return nil
}

// Origin returns the current origin stop.
func (b *Builder) Origin() routing.GeoPoint {
	return b.origin
}

// Destination returns the current destination stop.
func (b *Builder) Destination() routing.GeoPoint {
	return b.destination
}

// Waypoints returns a copy of the current waypoint sequence.
func (b *Builder) Waypoints() []routing.GeoPoint {
	return append([]routing.GeoPoint(nil), b.waypoints...)
}

// Points returns the full stop sequence in routing order: origin, waypoints
// in listed order, destination.
func (b *Builder) Points() []routing.GeoPoint {
	points := make([]routing.GeoPoint, 0, len(b.waypoints)+2)
	points = append(points, b.origin)
	points = append(points, b.waypoints...)
	points = append(points, b.destination)
	return points
}

// Addresses returns the display addresses of all stops that have one, in
// routing order.
func (b *Builder) Addresses() []string {
	var addrs []string
	for _, p := range b.Points() {
		if p.Address != "" {
			addrs = append(addrs, p.Address)
		}
	}
	return addrs
}
