// Package worker consumes driver app events from Pub/Sub and applies them
// to the trip collection.
package worker

// Driver event types carried on the events subscription.
const (
	EventTripStarted    = "trip_started"
	EventTripFinished   = "trip_finished"
	EventPositionUpdate = "position_update"
)

// DriverEvent is the message a driver's device publishes. Position events
// carry a coordinate; lifecycle events carry only the trip reference.
type DriverEvent struct {
	EventType string   `json:"event_type"`
	TripID    string   `json:"trip_id"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}
