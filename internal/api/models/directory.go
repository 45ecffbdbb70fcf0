package models

// Driver is the API representation of a driver record.
type Driver struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// DriverList is the response for driver listings.
type DriverList struct {
	Items []Driver `json:"items"`
}

// Contact is a client sub-contact.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

// FavoriteLocation is a named, pre-resolved location owned by a client.
type FavoriteLocation struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Point      Point  `json:"point"`
	AssignedTo string `json:"assignedTo"`
}

// Client is the API representation of a client record.
type Client struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Contacts  []Contact          `json:"contacts,omitempty"`
	Locations []FavoriteLocation `json:"locations,omitempty"`
}

// ClientList is the response for client listings.
type ClientList struct {
	Items []Client `json:"items"`
}

// FavoriteList is the response for requester-scoped favorite lookups.
type FavoriteList struct {
	Items []FavoriteLocation `json:"items"`
}
