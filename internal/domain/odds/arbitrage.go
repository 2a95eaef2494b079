package odds

import "github.com/asstoyanov/predictor-mcp/internal/domain/market"

// Stake is the share of the total outlay placed on one leg.
type Stake struct {
	Outcome       market.Outcome
	BookmakerID   int64
	BookmakerName string
	Odds          float64
	StakePct      float64
}

// Opportunity is a set of best prices, one per outcome, whose inverse sum is
// below 1. Values are exact; rounding is left to presentation.
type Opportunity struct {
	Market         market.Kind
	Legs           []Quote
	InverseOddsSum float64
	ROI            float64
	StakePlan      []Stake
}

// BestPrices picks the highest price per outcome of kind across all
// bookmakers. The earliest quote wins a tie. ok is false when an outcome has
// no quote at all.
func BestPrices(quotes []Quote, kind market.Kind) (legs []Quote, ok bool) {
	outcomes := kind.Outcomes()
	if len(outcomes) == 0 {
		return nil, false
	}

	legs = make([]Quote, len(outcomes))
	for i, outcome := range outcomes {
		found := false
		for _, q := range quotes {
			if q.Market != kind || q.Outcome != outcome || !ValidPrice(q.Price) {
				continue
			}
			if !found || q.Price > legs[i].Price {
				legs[i] = q
				found = true
			}
		}
		if !found {
			return nil, false
		}
	}
	return legs, true
}

// FindArbitrage checks each market independently and reports those whose
// best-price combination returns more than zero and at least minROI.
func FindArbitrage(quotes []Quote, minROI float64) []Opportunity {
	out := make([]Opportunity, 0, len(market.ArbitrageChecked))
	for _, kind := range market.ArbitrageChecked {
		legs, ok := BestPrices(quotes, kind)
		if !ok {
			continue
		}

		invSum := 0.0
		for _, leg := range legs {
			invSum += 1 / leg.Price
		}
		roi := 1/invSum - 1
		if roi <= 0 || roi < minROI {
			continue
		}

		plan := make([]Stake, len(legs))
		for i, leg := range legs {
			plan[i] = Stake{
				Outcome:       leg.Outcome,
				BookmakerID:   leg.BookmakerID,
				BookmakerName: leg.BookmakerName,
				Odds:          leg.Price,
				StakePct:      (1 / leg.Price) / invSum * 100,
			}
		}

		out = append(out, Opportunity{
			Market:         kind,
			Legs:           legs,
			InverseOddsSum: invSum,
			ROI:            roi,
			StakePlan:      plan,
		})
	}
	return out
}
