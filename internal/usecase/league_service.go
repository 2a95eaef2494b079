package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/asstoyanov/predictor-mcp/internal/domain/league"
)

type LeagueService struct {
	leagueRepo league.Repository
}

func NewLeagueService(leagueRepo league.Repository) *LeagueService {
	return &LeagueService{leagueRepo: leagueRepo}
}

func (s *LeagueService) ListLeagues(ctx context.Context) ([]league.League, error) {
	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

// Resolve maps a league key onto the catalog entry. Unknown keys are an
// input error since the key set is closed.
func (s *LeagueService) Resolve(ctx context.Context, key string) (league.League, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return league.League{}, fmt.Errorf("%w: league key is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByKey(ctx, key)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: unknown league key %q", ErrInvalidInput, key)
	}

	return item, nil
}
