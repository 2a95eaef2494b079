package rating

const (
	BaselineHomeRate = 1.45
	BaselineAwayRate = 1.15

	MinGoalRate = 0.2
	MaxGoalRate = 3.2

	ratingScale   = 400.0
	maxScaledDiff = 1.5
	shiftPerScale = 0.35
)

// GoalRates holds the expected goals of each side in one match.
type GoalRates struct {
	Home float64
	Away float64
}

// ExpectedGoalRates shifts the baseline rates by the rating difference.
func ExpectedGoalRates(homeRating, awayRating float64) GoalRates {
	delta := clamp((homeRating-awayRating)/ratingScale, -maxScaledDiff, maxScaledDiff) * shiftPerScale
	return GoalRates{
		Home: clamp(BaselineHomeRate+delta, MinGoalRate, MaxGoalRate),
		Away: clamp(BaselineAwayRate-delta, MinGoalRate, MaxGoalRate),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
