package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/platform/cache"
)

const dateLayout = "2006-01-02"

type FixtureQuery struct {
	LeagueKey string
	Season    int
	From      string
	To        string
}

type FixtureList struct {
	LeagueKey string            `json:"leagueKey"`
	League    string            `json:"league"`
	Season    int               `json:"season"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	Fixtures  []fixture.Fixture `json:"fixtures"`
	Cached    bool              `json:"cached"`
}

type FixtureService struct {
	leagues     *LeagueService
	fixtureRepo fixture.Repository
	cache       *cache.Store[[]fixture.Fixture]
}

func NewFixtureService(leagues *LeagueService, fixtureRepo fixture.Repository, store *cache.Store[[]fixture.Fixture]) *FixtureService {
	return &FixtureService{
		leagues:     leagues,
		fixtureRepo: fixtureRepo,
		cache:       store,
	}
}

// ListByLeague lists a league's fixtures between two dates. Identical
// lookups inside the cache TTL share one provider call.
func (s *FixtureService) ListByLeague(ctx context.Context, query FixtureQuery) (FixtureList, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FixtureService.ListByLeague")
	defer span.End()

	if err := validateFixtureQuery(&query); err != nil {
		return FixtureList{}, err
	}

	item, err := s.leagues.Resolve(ctx, query.LeagueKey)
	if err != nil {
		return FixtureList{}, err
	}

	load := func(ctx context.Context) ([]fixture.Fixture, error) {
		fixtures, err := s.fixtureRepo.ListByLeague(ctx, fixture.Query{
			LeagueID: item.ID,
			Season:   query.Season,
			From:     query.From,
			To:       query.To,
		})
		if err != nil {
			return nil, fmt.Errorf("list fixtures by league: %w", err)
		}
		return fixtures, nil
	}

	var (
		fixtures []fixture.Fixture
		hit      bool
	)
	if s.cache != nil {
		key := fixtureCacheKey(item.Key, query)
		fixtures, hit, err = s.cache.GetOrLoad(ctx, key, load)
	} else {
		fixtures, err = load(ctx)
	}
	if err != nil {
		return FixtureList{}, err
	}

	return FixtureList{
		LeagueKey: item.Key,
		League:    item.Label(),
		Season:    query.Season,
		From:      query.From,
		To:        query.To,
		Fixtures:  fixtures,
		Cached:    hit,
	}, nil
}

func validateFixtureQuery(query *FixtureQuery) error {
	query.LeagueKey = strings.ToLower(strings.TrimSpace(query.LeagueKey))
	query.From = strings.TrimSpace(query.From)
	query.To = strings.TrimSpace(query.To)

	if query.LeagueKey == "" {
		return fmt.Errorf("%w: league key is required", ErrInvalidInput)
	}
	if query.Season <= 0 {
		return fmt.Errorf("%w: season must be positive", ErrInvalidInput)
	}

	from, err := time.Parse(dateLayout, query.From)
	if err != nil {
		return fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidInput)
	}
	to, err := time.Parse(dateLayout, query.To)
	if err != nil {
		return fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidInput)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: from must not be after to", ErrInvalidInput)
	}
	return nil
}

func fixtureCacheKey(leagueKey string, query FixtureQuery) string {
	return strings.Join([]string{
		"fixtures",
		leagueKey,
		strconv.Itoa(query.Season),
		query.From,
		query.To,
	}, "|")
}
