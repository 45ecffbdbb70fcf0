package itinerary

import (
	"github.com/fleetdispatch/fleetdispatch/internal/directory"
	"github.com/fleetdispatch/fleetdispatch/internal/routing"
)

// VisibleFavorites filters a client's favorite locations to those visible to
// the selected requester: shared favorites always, personally scoped ones
// only when the matching sub-contact is selected. A nil requester sees only
// the shared favorites.
//
// Visibility is evaluated at selection time only. Changing the requester
// after a favorite has been inserted does not revalidate the inserted stop.
func VisibleFavorites(locations []directory.FavoriteLocation, requestedBy *string) []directory.FavoriteLocation {
	visible := make([]directory.FavoriteLocation, 0, len(locations))
	for _, loc := range locations {
		if loc.AssignedTo == directory.FavoriteAssigneeGeneral {
			visible = append(visible, loc)
			continue
		}
		if requestedBy != nil && loc.AssignedTo == *requestedBy {
			visible = append(visible, loc)
		}
	}
	return visible
}

// FavoritePoint converts a favorite location into a resolved stop,
// bypassing the address resolver.
func FavoritePoint(loc directory.FavoriteLocation) routing.GeoPoint {
	return routing.GeoPoint{
		Address: loc.Address,
		Coord:   &routing.Coordinate{Lat: loc.Lat, Lon: loc.Lon},
	}
}
