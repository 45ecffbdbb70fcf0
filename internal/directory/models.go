// Package directory holds the read-only driver and client records used to
// populate planning selections. The core never mutates these.
package directory

import "errors"

var (
	// ErrDriverNotFound indicates the driver does not exist.
	ErrDriverNotFound = errors.New("driver not found")
	// ErrClientNotFound indicates the client does not exist.
	ErrClientNotFound = errors.New("client not found")
)

// FavoriteAssigneeGeneral marks a favorite location shared with every
// sub-contact of the owning client.
const FavoriteAssigneeGeneral = "General"

// Driver is a vehicle operator available for trip assignment.
type Driver struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// Contact is a sub-contact of a client who may request trips on its behalf.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// FavoriteLocation is a named, pre-resolved location owned by a client
// record. AssignedTo is either FavoriteAssigneeGeneral or the name of the
// one sub-contact it is scoped to.
type FavoriteLocation struct {
	Name       string  `json:"name"`
	Address    string  `json:"address"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	AssignedTo string  `json:"assignedTo"`
}

// Client is a customer on whose behalf trips are dispatched.
type Client struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Contacts  []Contact          `json:"contacts,omitempty"`
	Locations []FavoriteLocation `json:"locations,omitempty"`
}
