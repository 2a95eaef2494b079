package odds

import (
	"math"
	"strings"

	"github.com/asstoyanov/predictor-mcp/internal/domain/market"
)

// BookmakerBlock is one bookmaker's raw price sheet for a fixture, with the
// provider's free-text bet and selection names.
type BookmakerBlock struct {
	ID   int64
	Name string
	Bets []Bet
}

type Bet struct {
	Name   string
	Values []Selection
}

// Selection carries a provider label and its decimal price. Price is NaN
// when the provider value could not be parsed.
type Selection struct {
	Label string
	Price float64
}

// Quote is a normalized price for one outcome at one bookmaker.
type Quote struct {
	BookmakerID   int64          `json:"bookmakerId"`
	BookmakerName string         `json:"bookmakerName"`
	Market        market.Kind    `json:"market"`
	Outcome       market.Outcome `json:"selection"`
	Price         float64        `json:"odds"`
}

func ValidPrice(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price > 1
}

// Quotes normalizes every recognised bet of the bookmaker. Unknown markets,
// unknown selections and unusable prices are dropped.
func (b BookmakerBlock) Quotes() []Quote {
	out := make([]Quote, 0, 8)
	for _, bet := range b.Bets {
		kind, ok := market.ParseKind(bet.Name)
		if !ok {
			continue
		}
		for _, value := range bet.Values {
			outcome, ok := market.ParseOutcome(kind, value.Label)
			if !ok || !ValidPrice(value.Price) {
				continue
			}
			out = append(out, Quote{
				BookmakerID:   b.ID,
				BookmakerName: b.Name,
				Market:        kind,
				Outcome:       outcome,
				Price:         value.Price,
			})
		}
	}
	return out
}

// QuotesFromBlocks flattens quotes across all bookmakers.
func QuotesFromBlocks(blocks []BookmakerBlock) []Quote {
	out := make([]Quote, 0, len(blocks)*8)
	for _, block := range blocks {
		out = append(out, block.Quotes()...)
	}
	return out
}

// PickBookmaker returns the first block whose name matches, ignoring case
// and surrounding whitespace.
func PickBookmaker(blocks []BookmakerBlock, name string) (BookmakerBlock, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return BookmakerBlock{}, false
	}
	for _, block := range blocks {
		if strings.ToLower(strings.TrimSpace(block.Name)) == want {
			return block, true
		}
	}
	return BookmakerBlock{}, false
}

// MarketPrices returns the prices of kind's outcomes in market order, taking
// the first quote seen per outcome. ok is false unless every outcome is
// priced.
func MarketPrices(quotes []Quote, kind market.Kind) (prices []float64, ok bool) {
	outcomes := kind.Outcomes()
	if len(outcomes) == 0 {
		return nil, false
	}

	prices = make([]float64, len(outcomes))
	found := 0
	for i, outcome := range outcomes {
		for _, q := range quotes {
			if q.Market == kind && q.Outcome == outcome {
				prices[i] = q.Price
				found++
				break
			}
		}
	}
	if found != len(outcomes) {
		return nil, false
	}
	return prices, true
}
