package market

// Kind is a betting market the model prices.
type Kind string

const (
	Kind1X2  Kind = "1x2"
	KindBTTS Kind = "btts"
	KindOU25 Kind = "ou25"
)

// Outcome is one selection inside a market.
type Outcome string

const (
	OutcomeHome  Outcome = "home"
	OutcomeDraw  Outcome = "draw"
	OutcomeAway  Outcome = "away"
	OutcomeYes   Outcome = "yes"
	OutcomeNo    Outcome = "no"
	OutcomeOver  Outcome = "over"
	OutcomeUnder Outcome = "under"
)

var (
	outcomes1X2  = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}
	outcomesBTTS = []Outcome{OutcomeYes, OutcomeNo}
	outcomesOU25 = []Outcome{OutcomeOver, OutcomeUnder}
)

// Scored lists markets in the order edges are computed for a fixture.
var Scored = []Kind{Kind1X2, KindOU25, KindBTTS}

// ArbitrageChecked lists markets in the order arbitrage is checked.
var ArbitrageChecked = []Kind{KindOU25, KindBTTS, Kind1X2}

// Outcomes returns every outcome that must be priced for the market to be
// complete. The returned slice is shared and must not be modified.
func (k Kind) Outcomes() []Outcome {
	switch k {
	case Kind1X2:
		return outcomes1X2
	case KindBTTS:
		return outcomesBTTS
	case KindOU25:
		return outcomesOU25
	default:
		return nil
	}
}

func (k Kind) Valid() bool {
	return len(k.Outcomes()) > 0
}

// Weight is the trust multiplier applied to edge scores in this market.
func (k Kind) Weight() float64 {
	switch k {
	case Kind1X2:
		return 1.0
	case KindOU25:
		return 0.9
	default:
		return 0.85
	}
}
