package apifootball

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
)

type envelopeChecker interface {
	providerError() string
}

// envelope is the wrapper every API-Football response shares. Errors is an
// empty array on success and an object keyed by field on failure.
type envelope[T any] struct {
	Errors   any    `json:"errors"`
	Results  int    `json:"results"`
	Paging   paging `json:"paging"`
	Response []T    `json:"response"`
}

type paging struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

func (e *envelope[T]) providerError() string {
	switch typed := e.Errors.(type) {
	case map[string]any:
		if len(typed) == 0 {
			return ""
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, typed[key]))
		}
		return strings.Join(parts, "; ")
	case []any:
		if len(typed) == 0 {
			return ""
		}
		return fmt.Sprint(typed...)
	case string:
		return strings.TrimSpace(typed)
	default:
		return ""
	}
}

type fixtureItem struct {
	Fixture struct {
		ID     int64  `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		ID     int64  `json:"id"`
		Name   string `json:"name"`
		Season int    `json:"season"`
		Round  string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type teamRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type oddsItem struct {
	Bookmakers []bookmakerItem `json:"bookmakers"`
}

type bookmakerItem struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Bets []betItem `json:"bets"`
}

type betItem struct {
	ID     int64       `json:"id"`
	Name   string      `json:"name"`
	Values []valueItem `json:"values"`
}

type valueItem struct {
	Value flexString `json:"value"`
	Odd   flexFloat  `json:"odd"`
}

type injuryItem struct {
	Player struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Position string `json:"position"`
		Type     string `json:"type"`
		Reason   string `json:"reason"`
	} `json:"player"`
	Team teamRef `json:"team"`
}

type playerItem struct {
	Player struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"player"`
	Statistics []playerStatistics `json:"statistics"`
}

type playerStatistics struct {
	Games struct {
		Minutes     *int   `json:"minutes"`
		Appearences *int   `json:"appearences"`
		Appearances *int   `json:"appearances"`
		Position    string `json:"position"`
	} `json:"games"`
	Goals struct {
		Total   *int `json:"total"`
		Assists *int `json:"assists"`
	} `json:"goals"`
}

// flexFloat accepts a JSON number or a numeric string. Anything else decodes
// to NaN so the price is rejected downstream rather than failing the page.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = flexFloat(math.NaN())
		return nil
	}

	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			*f = flexFloat(math.NaN())
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			parsed = math.NaN()
		}
		*f = flexFloat(parsed)
		return nil
	}

	parsed, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		parsed = math.NaN()
	}
	*f = flexFloat(parsed)
	return nil
}

// flexString accepts a JSON string or a bare number, as selection labels
// such as handicap lines come either way.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}
	if trimmed[0] == '"' {
		var text string
		if err := sonic.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*s = flexString(text)
		return nil
	}
	*s = flexString(trimmed)
	return nil
}

func parseProviderTime(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05-0700", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
