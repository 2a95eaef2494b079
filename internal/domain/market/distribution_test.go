package market

import (
	"math"
	"testing"

	crerr "github.com/cockroachdb/errors"
)

func TestCompute_TypicalMatch(t *testing.T) {
	t.Parallel()

	probs, err := Compute(1.45, 1.15, DefaultMaxGoals)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	want := Probabilities{
		OneXTwo:      ThreeWay{Home: 0.440, Draw: 0.260, Away: 0.300},
		DoubleChance: DoubleChance{HomeOrDraw: 0.700, HomeOrAway: 0.740, DrawOrAway: 0.560},
		BTTS:         YesNo{Yes: 0.523, No: 0.477},
		OverUnder25:  OverUnder{Over: 0.482, Under: 0.518},
	}
	if !almostEqualProbabilities(probs, want) {
		t.Fatalf("unexpected probabilities:\n got %+v\nwant %+v", probs, want)
	}
	if probs.OneXTwo.Home-probs.OneXTwo.Away < 0.1 {
		t.Fatalf("home should be materially more likely than away: %+v", probs.OneXTwo)
	}
	if probs.OneXTwo.Draw < 0.23 || probs.OneXTwo.Draw > 0.27 {
		t.Fatalf("draw outside expected band: %v", probs.OneXTwo.Draw)
	}
}

func TestCompute_SubMarketsSumToOne(t *testing.T) {
	t.Parallel()

	for lh := 0.2; lh <= 3.2; lh += 0.15 {
		for la := 0.2; la <= 3.2; la += 0.15 {
			probs, err := Compute(lh, la, DefaultMaxGoals)
			if err != nil {
				t.Fatalf("compute(%v, %v): %v", lh, la, err)
			}

			sums := map[string]float64{
				"1x2":  probs.OneXTwo.Home + probs.OneXTwo.Draw + probs.OneXTwo.Away,
				"btts": probs.BTTS.Yes + probs.BTTS.No,
				"ou25": probs.OverUnder25.Over + probs.OverUnder25.Under,
			}
			for name, sum := range sums {
				if math.Abs(sum-1) > 1e-6 {
					t.Fatalf("%s for (%v, %v) sums to %.9f", name, lh, la, sum)
				}
			}
		}
	}
}

func TestCompute_HomeProbabilityMonotoneInHomeRate(t *testing.T) {
	t.Parallel()

	prev := Joint(0.2, 1.15, DefaultMaxGoals)
	for lh := 0.25; lh <= 3.2; lh += 0.05 {
		next := Joint(lh, 1.15, DefaultMaxGoals)
		if next.Home <= prev.Home {
			t.Fatalf("home probability did not increase at lambda_home=%v: %v -> %v", lh, prev.Home, next.Home)
		}
		if next.Away >= prev.Away {
			t.Fatalf("away probability did not decrease at lambda_home=%v: %v -> %v", lh, prev.Away, next.Away)
		}
		prev = next
	}
}

func TestJoint_OnlyThreeWaySplitIsRenormalized(t *testing.T) {
	t.Parallel()

	// with a tiny grid the truncated tail is large, so the asymmetry shows
	d := Joint(2.5, 2.5, 2)
	if math.Abs(d.Home+d.Draw+d.Away-1) > 1e-12 {
		t.Fatalf("1x2 should be renormalized, sum=%v", d.Home+d.Draw+d.Away)
	}

	var gridMass float64
	for h := 0; h <= 2; h++ {
		for a := 0; a <= 2; a++ {
			gridMass += poisson(h, 2.5) * poisson(a, 2.5)
		}
	}
	wantOver := 0.0
	for h := 0; h <= 2; h++ {
		for a := 0; a <= 2; a++ {
			if h+a >= 3 {
				wantOver += poisson(h, 2.5) * poisson(a, 2.5)
			}
		}
	}
	if math.Abs(d.Over25-wantOver) > 1e-12 {
		t.Fatalf("over 2.5 should be the raw truncated sum: got %v want %v (grid mass %v)", d.Over25, wantOver, gridMass)
	}
}

func TestJoint_DoesNotAllocate(t *testing.T) {
	allocs := testing.AllocsPerRun(200, func() {
		_ = Joint(1.62, 0.97, DefaultMaxGoals)
	})
	if allocs != 0 {
		t.Fatalf("expected zero allocations, got %v", allocs)
	}
}

func TestPublish_ThreeWayKeepsExactThousandths(t *testing.T) {
	t.Parallel()

	// independent rounding would give 0.334 * 3 = 1.002
	d := Distribution{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3, BTTSYes: 0.5, Over25: 0.5}
	probs := d.Publish()
	sum := probs.OneXTwo.Home + probs.OneXTwo.Draw + probs.OneXTwo.Away
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("published 1x2 sums to %v", sum)
	}
	if probs.OneXTwo.Home != 0.334 || probs.OneXTwo.Draw != 0.333 || probs.OneXTwo.Away != 0.333 {
		t.Fatalf("unexpected split: %+v", probs.OneXTwo)
	}
}

func TestValidate_FlagsInvariantViolation(t *testing.T) {
	t.Parallel()

	broken := Probabilities{
		OneXTwo:     ThreeWay{Home: 0.5, Draw: 0.3, Away: 0.3},
		BTTS:        YesNo{Yes: 0.5, No: 0.5},
		OverUnder25: OverUnder{Over: 0.5, Under: 0.5},
	}
	err := broken.Validate()
	if !crerr.Is(err, ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
	if !crerr.HasAssertionFailure(err) {
		t.Fatalf("expected an assertion failure, got %v", err)
	}
}

func TestProbabilities_Of(t *testing.T) {
	t.Parallel()

	probs, err := Compute(1.45, 1.15, DefaultMaxGoals)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}

	for _, kind := range Scored {
		for _, outcome := range kind.Outcomes() {
			if _, ok := probs.Of(kind, outcome); !ok {
				t.Fatalf("missing probability for %s/%s", kind, outcome)
			}
		}
	}
	if _, ok := probs.Of(KindBTTS, OutcomeHome); ok {
		t.Fatalf("home is not a btts outcome")
	}
}

func poisson(k int, lambda float64) float64 {
	fact := 1.0
	for i := 2; i <= k; i++ {
		fact *= float64(i)
	}
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / fact
}

func almostEqualProbabilities(got, want Probabilities) bool {
	pairs := [][2]float64{
		{got.OneXTwo.Home, want.OneXTwo.Home},
		{got.OneXTwo.Draw, want.OneXTwo.Draw},
		{got.OneXTwo.Away, want.OneXTwo.Away},
		{got.DoubleChance.HomeOrDraw, want.DoubleChance.HomeOrDraw},
		{got.DoubleChance.HomeOrAway, want.DoubleChance.HomeOrAway},
		{got.DoubleChance.DrawOrAway, want.DoubleChance.DrawOrAway},
		{got.BTTS.Yes, want.BTTS.Yes},
		{got.BTTS.No, want.BTTS.No},
		{got.OverUnder25.Over, want.OverUnder25.Over},
		{got.OverUnder25.Under, want.OverUnder25.Under},
	}
	for _, p := range pairs {
		if math.Abs(p[0]-p[1]) > 1e-9 {
			return false
		}
	}
	return true
}
