package rating

import (
	"math"

	"github.com/asstoyanov/predictor-mcp/internal/domain/teamform"
)

const (
	Initial = 1500.0

	// BaselineOpponent is the strength every result is scored against;
	// opponent ratings are not tracked across the league.
	BaselineOpponent = 1500.0
	KFactor          = 20.0

	maxMarginBonus   = 2
	marginBonusScale = 0.25
)

// FromResults folds history into an Elo-style rating in the order given.
// An empty history returns initial unchanged.
func FromResults(history []teamform.Result, initial float64) float64 {
	elo := initial
	for _, match := range history {
		expected := 1 / (1 + math.Pow(10, (BaselineOpponent-elo)/400))
		elo += KFactor * marginMultiplier(match) * (match.Outcome() - expected)
	}
	return elo
}

func marginMultiplier(match teamform.Result) float64 {
	margin := match.GoalDifference()
	if margin > maxMarginBonus {
		margin = maxMarginBonus
	}
	return 1 + float64(margin)*marginBonusScale
}
