package odds

import (
	"math"
	"sort"

	"github.com/asstoyanov/predictor-mcp/internal/domain/market"
)

const (
	DefaultMinEdge = 0.05

	minEV = -0.25
	maxEV = 0.5

	hugeEdge = 0.1
	hugeOdds = 3.0
)

type Severity string

const (
	SeverityHuge  Severity = "huge"
	SeverityValue Severity = "value"
	SeverityNone  Severity = "none"
)

// EdgeResult compares the model with one bookmaker price. Probabilities,
// Edge and Score are published at three decimals; IsValue is decided on the
// unrounded edge.
type EdgeResult struct {
	Market             market.Kind    `json:"market"`
	Outcome            market.Outcome `json:"selection"`
	Odds               float64        `json:"odds"`
	ModelProbability   float64        `json:"modelProb"`
	ImpliedProbability float64        `json:"impliedProb"`
	Edge               float64        `json:"edge"`
	Score              *float64       `json:"score,omitempty"`
	IsValue            bool           `json:"value"`
	Severity           Severity       `json:"severity,omitempty"`
}

// RankValue is the score when present, otherwise the edge.
func (e EdgeResult) RankValue() float64 {
	if e.Score != nil {
		return *e.Score
	}
	return e.Edge
}

// Classify tags big disagreements at non-short prices as huge, then value
// bets, then everything else.
func (e EdgeResult) Classify() Severity {
	if e.Edge >= hugeEdge && e.Odds >= hugeOdds {
		return SeverityHuge
	}
	if e.IsValue {
		return SeverityValue
	}
	return SeverityNone
}

type Scorer struct {
	MinEdge float64
}

func NewScorer(minEdge float64) Scorer {
	return Scorer{MinEdge: minEdge}
}

// Score builds the edge result of one outcome given its model probability,
// its margin-free implied probability and the offered price.
func (s Scorer) Score(kind market.Kind, outcome market.Outcome, modelProb, impliedProb, price float64) EdgeResult {
	edge := modelProb - impliedProb
	score := ExpectedValueScore(kind, modelProb, price)
	return EdgeResult{
		Market:             kind,
		Outcome:            outcome,
		Odds:               price,
		ModelProbability:   round3(modelProb),
		ImpliedProbability: round3(impliedProb),
		Edge:               round3(edge),
		Score:              &score,
		IsValue:            edge >= s.MinEdge,
	}
}

// ScoreMarkets scores every market that quotes (normally from one
// bookmaker) price completely. Partially priced markets are skipped. The
// result is ranked.
func (s Scorer) ScoreMarkets(probs market.Probabilities, quotes []Quote) []EdgeResult {
	out := make([]EdgeResult, 0, 7)
	for _, kind := range market.Scored {
		prices, ok := MarketPrices(quotes, kind)
		if !ok {
			continue
		}
		implied, err := ImpliedProbabilities(prices)
		if err != nil {
			continue
		}
		for i, outcome := range kind.Outcomes() {
			modelProb, _ := probs.Of(kind, outcome)
			out = append(out, s.Score(kind, outcome, modelProb, implied[i], prices[i]))
		}
	}
	Rank(out)
	return out
}

// ExpectedValueScore is the clamped expected value per unit stake, damped
// for long prices and weighted by market, rounded to three decimals.
func ExpectedValueScore(kind market.Kind, modelProb, price float64) float64 {
	ev := modelProb*price - 1
	return round3(clamp(ev, minEV, maxEV) * variancePenalty(price) * kind.Weight())
}

// Rank orders results by RankValue, highest first.
func Rank(results []EdgeResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RankValue() > results[j].RankValue()
	})
}

func variancePenalty(price float64) float64 {
	return 1 / math.Sqrt(math.Max(1, price))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
