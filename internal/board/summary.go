package board

import "github.com/fleetdispatch/fleetdispatch/internal/trip"

// Summary is the headline figures shown above the dispatch board.
type Summary struct {
	Total           int     `json:"total"`
	Assigned        int     `json:"assigned"`
	InProgress      int     `json:"inProgress"`
	Completed       int     `json:"completed"`
	Cancelled       int     `json:"cancelled"`
	CompletedToday  int     `json:"completedToday"`
	DistanceKmToday float64 `json:"distanceKmToday"`
}

// Summarize computes the status counts and today's completed distance over
// the full collection.
func Summarize(trips []*trip.Trip, today string) Summary {
	var s Summary
	s.Total = len(trips)

	for _, t := range trips {
		switch t.Status {
		case trip.StatusAssigned:
			s.Assigned++
		case trip.StatusInProgress:
			s.InProgress++
		case trip.StatusCompleted:
			s.Completed++
			if t.FinalDate == today {
				s.CompletedToday++
				s.DistanceKmToday += t.TechnicalData.TotalDistanceKm
			}
		case trip.StatusCancelled:
			s.Cancelled++
		}
	}

	return s
}
