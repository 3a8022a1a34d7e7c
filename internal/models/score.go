package models

// VibeScore is the twelve-dimension weighted composite health score.
// Total and every breakdown entry are clamped to [0, 100]. Weights is a copy
// of the scorer's weight table, returned so callers can audit the composition.
type VibeScore struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
	Weights   map[string]int `json:"weights"`
}
