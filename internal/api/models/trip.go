package models

// TripDriver identifies the assigned driver.
type TripDriver struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TripCreateRequest is the request body for confirming a planned trip. The
// technical data is the route solution the operator confirmed; it is frozen
// into the trip verbatim.
type TripCreateRequest struct {
	Client        string            `json:"client" validate:"required"`
	RequestedBy   *string           `json:"requestedBy,omitempty"`
	DriverID      string            `json:"driverId" validate:"required"`
	ServiceType   string            `json:"serviceType" validate:"required,oneof=IMMEDIATE SCHEDULED"`
	ScheduledDate string            `json:"scheduledDate,omitempty"`
	ScheduledTime string            `json:"scheduledTime,omitempty"`
	Stops         []RoutePointInput `json:"stops" validate:"required"`
	TechnicalData RouteSolution     `json:"technicalData"`
}

// TripTimesPatchRequest is the request body for the manual time edit. A nil
// field leaves the stored value untouched, an empty string clears it.
type TripTimesPatchRequest struct {
	StartTimeActual *string `json:"startTimeActual,omitempty"`
	EndTimeActual   *string `json:"endTimeActual,omitempty"`
}

// TripPositionRequest carries an externally supplied live coordinate.
type TripPositionRequest struct {
	Point Point `json:"point" validate:"required"`
}

// Trip is the API representation of a trip.
type Trip struct {
	ID              string        `json:"id"`
	Client          string        `json:"client"`
	RequestedBy     *string       `json:"requestedBy,omitempty"`
	Driver          TripDriver    `json:"driver"`
	ServiceType     string        `json:"serviceType"`
	ScheduledDate   string        `json:"scheduledDate,omitempty"`
	ScheduledTime   string        `json:"scheduledTime,omitempty"`
	Status          string        `json:"status"`
	Stops           []string      `json:"stops"`
	TechnicalData   RouteSolution `json:"technicalData"`
	StartTimeActual string        `json:"startTimeActual,omitempty"`
	EndTimeActual   string        `json:"endTimeActual,omitempty"`
	FinalDate       string        `json:"finalDate,omitempty"`
	LastPosition    *Point        `json:"lastPosition,omitempty"`
	CreatedAt       Timestamp     `json:"createdAt"`
	UpdatedAt       Timestamp     `json:"updatedAt"`
}

// TripList is the response for trip listings.
type TripList struct {
	Items []Trip `json:"items"`
}
