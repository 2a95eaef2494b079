package market

import "strings"

var kindSynonyms = map[string]Kind{
	"match winner":        Kind1X2,
	"winner":              Kind1X2,
	"1x2":                 Kind1X2,
	"both teams score":    KindBTTS,
	"both teams to score": KindBTTS,
	"btts":                KindBTTS,
	"goals over/under":    KindOU25,
	"over/under":          KindOU25,
}

var outcomeSynonyms = map[Kind]map[string]Outcome{
	Kind1X2: {
		"home": OutcomeHome,
		"1":    OutcomeHome,
		"draw": OutcomeDraw,
		"x":    OutcomeDraw,
		"away": OutcomeAway,
		"2":    OutcomeAway,
	},
	KindBTTS: {
		"yes": OutcomeYes,
		"no":  OutcomeNo,
	},
	KindOU25: {
		"over 2.5":  OutcomeOver,
		"over2.5":   OutcomeOver,
		"o2.5":      OutcomeOver,
		"under 2.5": OutcomeUnder,
		"under2.5":  OutcomeUnder,
		"u2.5":      OutcomeUnder,
	},
}

// ParseKind maps a provider bet name onto a market. Unknown names, including
// other goal lines, report false.
func ParseKind(name string) (Kind, bool) {
	kind, ok := kindSynonyms[normalizeLabel(name)]
	return kind, ok
}

// ParseOutcome maps a provider selection label onto an outcome of kind.
func ParseOutcome(kind Kind, label string) (Outcome, bool) {
	table, ok := outcomeSynonyms[kind]
	if !ok {
		return "", false
	}
	outcome, ok := table[normalizeLabel(label)]
	return outcome, ok
}

func normalizeLabel(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
