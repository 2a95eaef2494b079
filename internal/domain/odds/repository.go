package odds

import "context"

// Repository returns the raw bookmaker price sheets for a fixture.
type Repository interface {
	ListByFixture(ctx context.Context, fixtureID int64) ([]BookmakerBlock, error)
}
