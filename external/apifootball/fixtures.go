package apifootball

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/domain/teamform"
	"github.com/asstoyanov/predictor-mcp/internal/usecase"
)

// FixtureRepository serves league listings and fixture metadata.
type FixtureRepository struct {
	client *Client
}

func NewFixtureRepository(client *Client) *FixtureRepository {
	return &FixtureRepository{client: client}
}

func (r *FixtureRepository) ListByLeague(ctx context.Context, query fixture.Query) ([]fixture.Fixture, error) {
	var payload envelope[fixtureItem]
	err := r.client.getJSON(ctx, "/fixtures", []param{
		{key: "league", value: strconv.FormatInt(query.LeagueID, 10)},
		{key: "season", value: strconv.Itoa(query.Season)},
		{key: "from", value: query.From},
		{key: "to", value: query.To},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures league=%d season=%d: %w", query.LeagueID, query.Season, err)
	}

	out := make([]fixture.Fixture, 0, len(payload.Response))
	for _, item := range payload.Response {
		if item.Fixture.ID <= 0 {
			continue
		}
		out = append(out, mapFixture(item))
	}
	return out, nil
}

func (r *FixtureRepository) GetMeta(ctx context.Context, fixtureID int64) (fixture.Meta, error) {
	var payload envelope[fixtureItem]
	err := r.client.getJSON(ctx, "/fixtures", []param{
		{key: "id", value: strconv.FormatInt(fixtureID, 10)},
	}, &payload)
	if err != nil {
		return fixture.Meta{}, fmt.Errorf("fetch fixture id=%d: %w", fixtureID, err)
	}
	if len(payload.Response) == 0 {
		return fixture.Meta{}, fmt.Errorf("%w: fixture id=%d", usecase.ErrNotFound, fixtureID)
	}

	item := payload.Response[0]
	return fixture.Meta{
		FixtureID:    fixtureID,
		HomeTeamID:   item.Teams.Home.ID,
		AwayTeamID:   item.Teams.Away.ID,
		HomeTeamName: strings.TrimSpace(item.Teams.Home.Name),
		AwayTeamName: strings.TrimSpace(item.Teams.Away.Name),
		Season:       item.League.Season,
	}, nil
}

// TeamFormRepository serves a team's completed matches for a season.
type TeamFormRepository struct {
	client *Client
}

func NewTeamFormRepository(client *Client) *TeamFormRepository {
	return &TeamFormRepository{client: client}
}

// ListRecent returns up to last finished matches in provider order, each
// seen from teamID's side.
func (r *TeamFormRepository) ListRecent(ctx context.Context, teamID int64, season int, last int) ([]teamform.Result, error) {
	if last <= 0 {
		last = teamform.DefaultWindow
	}

	var payload envelope[fixtureItem]
	err := r.client.getJSON(ctx, "/fixtures", []param{
		{key: "team", value: strconv.FormatInt(teamID, 10)},
		{key: "season", value: strconv.Itoa(season)},
		{key: "last", value: strconv.Itoa(last)},
		{key: "status", value: fixture.StatusFinished},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch recent fixtures team=%d season=%d: %w", teamID, season, err)
	}

	out := make([]teamform.Result, 0, len(payload.Response))
	for _, item := range payload.Response {
		if !fixture.IsFinishedStatus(item.Fixture.Status.Short) || item.Goals.Home == nil || item.Goals.Away == nil {
			continue
		}

		isHome := item.Teams.Home.ID == teamID
		result := teamform.Result{IsHome: &isHome}
		if isHome {
			result.GoalsFor, result.GoalsAgainst = *item.Goals.Home, *item.Goals.Away
		} else {
			result.GoalsFor, result.GoalsAgainst = *item.Goals.Away, *item.Goals.Home
		}
		if playedAt := parseProviderTime(item.Fixture.Date); !playedAt.IsZero() {
			result.PlayedAt = &playedAt
		}
		out = append(out, result)
	}
	return out, nil
}

func mapFixture(item fixtureItem) fixture.Fixture {
	return fixture.Fixture{
		ID:         item.Fixture.ID,
		KickoffAt:  parseProviderTime(item.Fixture.Date),
		Status:     fixture.NormalizeStatus(item.Fixture.Status.Short),
		LeagueID:   item.League.ID,
		LeagueName: item.League.Name,
		Round:      item.League.Round,
		Season:     item.League.Season,
		Home:       fixture.Team{ID: item.Teams.Home.ID, Name: item.Teams.Home.Name},
		Away:       fixture.Team{ID: item.Teams.Away.ID, Name: item.Teams.Away.Name},
		HomeGoals:  item.Goals.Home,
		AwayGoals:  item.Goals.Away,
	}
}
