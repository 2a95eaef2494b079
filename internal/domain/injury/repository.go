package injury

import "context"

// Repository reads squad availability data.
type Repository interface {
	ListByFixture(ctx context.Context, fixtureID int64) ([]Absence, error)
	ListSquadStats(ctx context.Context, teamID int64, season int) ([]PlayerSeason, error)
}
