package market

import (
	"math"

	crerr "github.com/cockroachdb/errors"
)

const (
	DefaultMaxGoals = 10
	// MaxSupportedGoals bounds the score grid so it fits in fixed arrays.
	MaxSupportedGoals = 20

	sumTolerance = 1e-6
	thousandths  = 1000
)

var ErrInvariantViolation = crerr.New("market probabilities invariant violated")

// Distribution is the exact (unrounded) result of the truncated score grid.
// Home/Draw/Away are renormalized over the grid; BTTSYes and Over25 are read
// directly as truncated sums.
type Distribution struct {
	Home    float64
	Draw    float64
	Away    float64
	BTTSYes float64
	Over25  float64
}

type ThreeWay struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

type DoubleChance struct {
	HomeOrDraw float64 `json:"1X"`
	HomeOrAway float64 `json:"12"`
	DrawOrAway float64 `json:"X2"`
}

type YesNo struct {
	Yes float64 `json:"yes"`
	No  float64 `json:"no"`
}

type OverUnder struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// Probabilities are the published market probabilities, each a whole number
// of thousandths.
type Probabilities struct {
	OneXTwo      ThreeWay     `json:"1x2"`
	DoubleChance DoubleChance `json:"doubleChance"`
	BTTS         YesNo        `json:"btts"`
	OverUnder25  OverUnder    `json:"ou25"`
}

// Joint integrates Poisson(h; lambdaHome)·Poisson(a; lambdaAway) over
// h, a ∈ [0, maxGoals]. It does not allocate.
func Joint(lambdaHome, lambdaAway float64, maxGoals int) Distribution {
	if maxGoals < 0 {
		maxGoals = DefaultMaxGoals
	}
	if maxGoals > MaxSupportedGoals {
		maxGoals = MaxSupportedGoals
	}

	var homePMF, awayPMF [MaxSupportedGoals + 1]float64
	poissonInto(homePMF[:maxGoals+1], lambdaHome)
	poissonInto(awayPMF[:maxGoals+1], lambdaAway)

	var d Distribution
	for h := 0; h <= maxGoals; h++ {
		ph := homePMF[h]
		for a := 0; a <= maxGoals; a++ {
			p := ph * awayPMF[a]
			switch {
			case h > a:
				d.Home += p
			case h == a:
				d.Draw += p
			default:
				d.Away += p
			}
			if h >= 1 && a >= 1 {
				d.BTTSYes += p
			}
			if h+a >= 3 {
				d.Over25 += p
			}
		}
	}

	if sum := d.Home + d.Draw + d.Away; sum > 0 {
		d.Home /= sum
		d.Draw /= sum
		d.Away /= sum
	}
	return d
}

// Compute runs Joint and publishes the result, failing loudly when a
// sub-market does not sum to one.
func Compute(lambdaHome, lambdaAway float64, maxGoals int) (Probabilities, error) {
	probs := Joint(lambdaHome, lambdaAway, maxGoals).Publish()
	if err := probs.Validate(); err != nil {
		return Probabilities{}, crerr.Wrapf(err, "lambda_home=%.4f lambda_away=%.4f", lambdaHome, lambdaAway)
	}
	return probs, nil
}

// Publish rounds the distribution to thousandths. The 1X2 split uses largest
// remainder so the three parts still add up to exactly 1000; complements are
// taken after rounding.
func (d Distribution) Publish() Probabilities {
	home, draw, away := splitThousandths(d.Home, d.Draw, d.Away)
	yes := roundThousandths(d.BTTSYes)
	over := roundThousandths(d.Over25)

	return Probabilities{
		OneXTwo: ThreeWay{
			Home: fromThousandths(home),
			Draw: fromThousandths(draw),
			Away: fromThousandths(away),
		},
		DoubleChance: DoubleChance{
			HomeOrDraw: fromThousandths(home + draw),
			HomeOrAway: fromThousandths(home + away),
			DrawOrAway: fromThousandths(draw + away),
		},
		BTTS: YesNo{
			Yes: fromThousandths(yes),
			No:  fromThousandths(thousandths - yes),
		},
		OverUnder25: OverUnder{
			Over:  fromThousandths(over),
			Under: fromThousandths(thousandths - over),
		},
	}
}

func (p Probabilities) Validate() error {
	checks := []struct {
		name  string
		parts []float64
	}{
		{name: "1x2", parts: []float64{p.OneXTwo.Home, p.OneXTwo.Draw, p.OneXTwo.Away}},
		{name: "btts", parts: []float64{p.BTTS.Yes, p.BTTS.No}},
		{name: "ou25", parts: []float64{p.OverUnder25.Over, p.OverUnder25.Under}},
	}

	for _, check := range checks {
		sum := 0.0
		for _, v := range check.parts {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return crerr.Mark(crerr.AssertionFailedf("%s probability %v outside [0,1]", check.name, v), ErrInvariantViolation)
			}
			sum += v
		}
		if math.Abs(sum-1) > sumTolerance {
			return crerr.Mark(crerr.AssertionFailedf("%s probabilities sum to %.9f", check.name, sum), ErrInvariantViolation)
		}
	}
	return nil
}

// Of returns the published probability of one outcome.
func (p Probabilities) Of(kind Kind, outcome Outcome) (float64, bool) {
	switch kind {
	case Kind1X2:
		switch outcome {
		case OutcomeHome:
			return p.OneXTwo.Home, true
		case OutcomeDraw:
			return p.OneXTwo.Draw, true
		case OutcomeAway:
			return p.OneXTwo.Away, true
		}
	case KindBTTS:
		switch outcome {
		case OutcomeYes:
			return p.BTTS.Yes, true
		case OutcomeNo:
			return p.BTTS.No, true
		}
	case KindOU25:
		switch outcome {
		case OutcomeOver:
			return p.OverUnder25.Over, true
		case OutcomeUnder:
			return p.OverUnder25.Under, true
		}
	}
	return 0, false
}

func poissonInto(dst []float64, lambda float64) {
	if len(dst) == 0 {
		return
	}
	if lambda < 0 {
		lambda = 0
	}
	dst[0] = math.Exp(-lambda)
	for k := 1; k < len(dst); k++ {
		dst[k] = dst[k-1] * lambda / float64(k)
	}
}

func roundThousandths(v float64) int {
	n := int(math.Round(v * thousandths))
	if n < 0 {
		return 0
	}
	if n > thousandths {
		return thousandths
	}
	return n
}

func splitThousandths(home, draw, away float64) (int, int, int) {
	values := [3]float64{home * thousandths, draw * thousandths, away * thousandths}
	var parts [3]int
	total := 0
	for i, v := range values {
		parts[i] = int(math.Floor(v))
		total += parts[i]
	}

	// hand the leftover units to the largest fractional remainders; ties go
	// to the earlier outcome
	for total < thousandths {
		best := 0
		bestRem := -1.0
		for i, v := range values {
			if rem := v - float64(parts[i]); rem > bestRem {
				best, bestRem = i, rem
			}
		}
		parts[best]++
		values[best] = float64(parts[best])
		total++
	}
	return parts[0], parts[1], parts[2]
}

func fromThousandths(n int) float64 {
	return float64(n) / thousandths
}
