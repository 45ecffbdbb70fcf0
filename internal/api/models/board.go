package models

// BoardResponse is the projected dispatch board view.
type BoardResponse struct {
	Mode        string    `json:"mode"`
	GeneratedAt Timestamp `json:"generatedAt"`
	Trips       []Trip    `json:"trips"`
}

// BoardSummary is the headline figures shown above the board.
type BoardSummary struct {
	Total           int     `json:"total"`
	Assigned        int     `json:"assigned"`
	InProgress      int     `json:"inProgress"`
	Completed       int     `json:"completed"`
	Cancelled       int     `json:"cancelled"`
	CompletedToday  int     `json:"completedToday"`
	DistanceKmToday float64 `json:"distanceKmToday"`
}
