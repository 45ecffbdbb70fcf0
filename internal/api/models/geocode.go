package models

// GeocodeCandidate is a resolved address suggestion.
type GeocodeCandidate struct {
	Label string `json:"label"`
	Point Point  `json:"point"`
}

// GeocodeResponse is the response for address search. Candidates is empty,
// not absent, when the resolver has no suggestions.
type GeocodeResponse struct {
	Query      string             `json:"query"`
	Candidates []GeocodeCandidate `json:"candidates"`
}
