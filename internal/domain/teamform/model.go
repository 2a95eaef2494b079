package teamform

import "time"

// DefaultWindow is the number of completed matches requested per team.
const DefaultWindow = 20

// Result is one completed match seen from a single team's side.
type Result struct {
	GoalsFor     int
	GoalsAgainst int
	IsHome       *bool
	PlayedAt     *time.Time
}

// Outcome returns 1 for a win, 0.5 for a draw and 0 for a loss.
func (r Result) Outcome() float64 {
	switch {
	case r.GoalsFor > r.GoalsAgainst:
		return 1
	case r.GoalsFor == r.GoalsAgainst:
		return 0.5
	default:
		return 0
	}
}

func (r Result) GoalDifference() int {
	diff := r.GoalsFor - r.GoalsAgainst
	if diff < 0 {
		return -diff
	}
	return diff
}
