package fixture

import "context"

// Repository exposes fixture read operations.
type Repository interface {
	ListByLeague(ctx context.Context, query Query) ([]Fixture, error)
	GetMeta(ctx context.Context, fixtureID int64) (Meta, error)
}
