package apifootball

import (
	"context"
	"fmt"
	"strconv"

	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
)

type OddsRepository struct {
	client *Client
}

func NewOddsRepository(client *Client) *OddsRepository {
	return &OddsRepository{client: client}
}

// ListByFixture flattens every bookmaker sheet of the fixture. An empty
// list means the provider has no odds for it.
func (r *OddsRepository) ListByFixture(ctx context.Context, fixtureID int64) ([]odds.BookmakerBlock, error) {
	var payload envelope[oddsItem]
	err := r.client.getJSON(ctx, "/odds", []param{
		{key: "fixture", value: strconv.FormatInt(fixtureID, 10)},
	}, &payload)
	if err != nil {
		return nil, fmt.Errorf("fetch odds fixture=%d: %w", fixtureID, err)
	}

	out := make([]odds.BookmakerBlock, 0, 16)
	for _, item := range payload.Response {
		for _, bk := range item.Bookmakers {
			block := odds.BookmakerBlock{ID: bk.ID, Name: bk.Name, Bets: make([]odds.Bet, 0, len(bk.Bets))}
			for _, b := range bk.Bets {
				bet := odds.Bet{Name: b.Name, Values: make([]odds.Selection, 0, len(b.Values))}
				for _, v := range b.Values {
					bet.Values = append(bet.Values, odds.Selection{Label: string(v.Value), Price: float64(v.Odd)})
				}
				block.Bets = append(block.Bets, bet)
			}
			out = append(out, block)
		}
	}
	return out, nil
}
