package apifootball

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/asstoyanov/predictor-mcp/internal/domain/injury"
)

// maxPlayerPages caps squad paging; the provider serves 20 players a page.
const maxPlayerPages = 3

type InjuryRepository struct {
	client *Client
}

func NewInjuryRepository(client *Client) *InjuryRepository {
	return &InjuryRepository{client: client}
}

func (r *InjuryRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]injury.Absence, error) {
	var payload envelope[injuryItem]
	err := r.client.getJSON(ctx, "/injuries", []param{
		{key: "fixture", value: strconv.FormatInt(fixtureID, 10)},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch injuries fixture=%d: %w", fixtureID, err)
	}

	out := make([]injury.Absence, 0, len(payload.Response))
	for _, item := range payload.Response {
		reason := strings.TrimSpace(item.Player.Reason)
		if reason == "" {
			reason = strings.TrimSpace(item.Player.Type)
		}
		out = append(out, injury.Absence{
			TeamID:   item.Team.ID,
			PlayerID: item.Player.ID,
			Name:     strings.TrimSpace(item.Player.Name),
			Position: strings.TrimSpace(item.Player.Position),
			Reason:   reason,
		})
	}
	return out, nil
}

// ListSquadStats reads the first statistics block of every squad member.
func (r *InjuryRepository) ListSquadStats(ctx context.Context, teamID int64, season int) ([]injury.PlayerSeason, error) {
	out := make([]injury.PlayerSeason, 0, 40)
	for page := 1; page <= maxPlayerPages; page++ {
		var payload envelope[playerItem]
		err := r.client.getJSON(ctx, "/players", []param{
			{key: "team", value: strconv.FormatInt(teamID, 10)},
			{key: "season", value: strconv.Itoa(season)},
			{key: "page", value: strconv.Itoa(page)},
		}, &payload)
		if err != nil {
			return nil, fmt.Errorf("fetch players team=%d season=%d page=%d: %w", teamID, season, page, err)
		}

		for _, item := range payload.Response {
			out = append(out, mapPlayerSeason(item))
		}
		if payload.Paging.Total <= page {
			break
		}
	}
	return out, nil
}

func mapPlayerSeason(item playerItem) injury.PlayerSeason {
	row := injury.PlayerSeason{
		PlayerID: item.Player.ID,
		Name:     strings.TrimSpace(item.Player.Name),
	}
	if len(item.Statistics) == 0 {
		return row
	}

	st := item.Statistics[0]
	row.Position = strings.TrimSpace(st.Games.Position)
	row.Goals = intOrZero(st.Goals.Total)
	row.Assists = intOrZero(st.Goals.Assists)
	row.Minutes = intOrZero(st.Games.Minutes)
	row.Appearances = intOrZero(st.Games.Appearences)
	if st.Games.Appearences == nil {
		row.Appearances = intOrZero(st.Games.Appearances)
	}
	return row
}
