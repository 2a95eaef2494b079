package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/domain/injury"
	"github.com/asstoyanov/predictor-mcp/internal/domain/league"
	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	fixturemock "github.com/asstoyanov/predictor-mcp/internal/mocks/domain/fixture"
	injurymock "github.com/asstoyanov/predictor-mcp/internal/mocks/domain/injury"
	leaguemock "github.com/asstoyanov/predictor-mcp/internal/mocks/domain/league"
	oddsmock "github.com/asstoyanov/predictor-mcp/internal/mocks/domain/odds"
	teamformmock "github.com/asstoyanov/predictor-mcp/internal/mocks/domain/teamform"
	"github.com/asstoyanov/predictor-mcp/internal/platform/cache"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

const testSeason = 2025

var testLeague = league.League{Key: "epl", ID: 39, Name: "Premier League", Country: "England", Type: "League"}

type testDeps struct {
	leagueRepo  *leaguemock.Repository
	fixtureRepo *fixturemock.Repository
	formRepo    *teamformmock.Repository
	oddsRepo    *oddsmock.Repository
	injuryRepo  *injurymock.Repository

	leagues     *LeagueService
	fixtures    *FixtureService
	predictions *PredictionService
	scans       *ScanService
	arbitrage   *ArbitrageService
}

// newTestDeps wires every service against fresh mocks. withInjuries decides
// whether the prediction pipeline gets an injury repository.
func newTestDeps(t *testing.T, withInjuries bool) *testDeps {
	t.Helper()

	d := &testDeps{
		leagueRepo:  leaguemock.NewRepository(t),
		fixtureRepo: fixturemock.NewRepository(t),
		formRepo:    teamformmock.NewRepository(t),
		oddsRepo:    oddsmock.NewRepository(t),
	}

	var injuryRepo injury.Repository
	if withInjuries {
		d.injuryRepo = injurymock.NewRepository(t)
		injuryRepo = d.injuryRepo
	}

	logger := logging.NewNop()
	d.leagues = NewLeagueService(d.leagueRepo)
	d.fixtures = NewFixtureService(d.leagues, d.fixtureRepo, cache.NewStore[[]fixture.Fixture](time.Minute))
	d.predictions = NewPredictionService(
		d.fixtureRepo,
		d.formRepo,
		d.oddsRepo,
		injuryRepo,
		cache.NewStore[injury.Leaders](12*time.Hour),
		PredictionConfig{},
		logger,
	)
	d.scans = NewScanService(d.fixtures, d.predictions, cache.NewStore[ScanResult](time.Minute), DefaultScanConcurrency, logger)
	d.arbitrage = NewArbitrageService(d.fixtures, d.oddsRepo, cache.NewStore[ArbitrageScanResult](time.Minute), 3, logger)
	return d
}

// sameCtx matches ctx or its detached copy, which scans hand to their workers.
func sameCtx(ctx context.Context) any {
	detached := context.WithoutCancel(ctx)
	return mock.MatchedBy(func(v context.Context) bool { return v == ctx || v == detached })
}

func testMeta(fixtureID int64) fixture.Meta {
	return fixture.Meta{
		FixtureID:    fixtureID,
		HomeTeamID:   1000 + fixtureID,
		AwayTeamID:   2000 + fixtureID,
		HomeTeamName: "Home FC",
		AwayTeamName: "Away United",
		Season:       testSeason,
	}
}

func testFixtures(ids ...int64) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(ids))
	for _, id := range ids {
		out = append(out, fixture.Fixture{
			ID:       id,
			Status:   fixture.StatusNotStarted,
			LeagueID: testLeague.ID,
			Season:   testSeason,
			Home:     fixture.Team{ID: 1000 + id, Name: "Home FC"},
			Away:     fixture.Team{ID: 2000 + id, Name: "Away United"},
		})
	}
	return out
}

func bookmaker(id int64, name string, bets ...odds.Bet) odds.BookmakerBlock {
	return odds.BookmakerBlock{ID: id, Name: name, Bets: bets}
}

func bet(name string, pairs ...any) odds.Bet {
	values := make([]odds.Selection, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		values = append(values, odds.Selection{Label: pairs[i].(string), Price: pairs[i+1].(float64)})
	}
	return odds.Bet{Name: name, Values: values}
}

// bet365Sheet prices all three scored markets, seven outcomes in total.
func bet365Sheet() odds.BookmakerBlock {
	return bookmaker(8, "Bet365",
		bet("Match Winner", "Home", 2.10, "Draw", 3.40, "Away", 3.60),
		bet("Goals Over/Under", "Over 1.5", 1.30, "Over 2.5", 2.00, "Under 2.5", 1.80),
		bet("Both Teams Score", "Yes", 1.80, "No", 1.95),
	)
}

func expectLeague(d *testDeps) {
	d.leagueRepo.
		On("GetByKey", mock.Anything, testLeague.Key).
		Return(testLeague, true, nil).
		Once()
}

func expectFixtureList(d *testDeps, from, to string, fixtures []fixture.Fixture) {
	d.fixtureRepo.
		On("ListByLeague", mock.Anything, fixture.Query{LeagueID: testLeague.ID, Season: testSeason, From: from, To: to}).
		Return(fixtures, nil).
		Once()
}
