package teamform

import "context"

// Repository returns a team's most recent completed matches for a season.
type Repository interface {
	ListRecent(ctx context.Context, teamID int64, season int, last int) ([]Result, error)
}
