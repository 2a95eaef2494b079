package httpapi

import (
	"math"

	"github.com/asstoyanov/predictor-mcp/internal/domain/league"
	"github.com/asstoyanov/predictor-mcp/internal/domain/market"
	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	"github.com/asstoyanov/predictor-mcp/internal/usecase"
)

type leagueDTO struct {
	Key   string `json:"key"`
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

func leagueToDTO(l league.League) leagueDTO {
	return leagueDTO{
		Key:   l.Key,
		ID:    l.ID,
		Label: l.Label(),
		Type:  l.Type,
	}
}

type stakeDTO struct {
	Selection     market.Outcome `json:"selection"`
	BookmakerName string         `json:"bookmakerName"`
	Odds          float64        `json:"odds"`
	StakePct      float64        `json:"stakePct"`
}

type arbitrageDTO struct {
	FixtureID int64        `json:"fixtureId"`
	Market    market.Kind  `json:"market"`
	Legs      []odds.Quote `json:"legs"`
	InvSum    float64      `json:"invSum"`
	ROI       float64      `json:"roi"`
	StakePlan []stakeDTO   `json:"stakePlan"`
}

type arbitrageReportDTO struct {
	FixtureID      int64          `json:"fixtureId"`
	MarketsChecked []market.Kind  `json:"marketsChecked"`
	LegsCount      int            `json:"legsCount"`
	Arbs           []arbitrageDTO `json:"arbs"`
}

type arbitrageScanDTO struct {
	LeagueKey string               `json:"leagueKey"`
	Season    int                  `json:"season"`
	From      string               `json:"from"`
	To        string               `json:"to"`
	MinROI    float64              `json:"minRoi"`
	Checked   int                  `json:"checked"`
	Results   []arbitrageReportDTO `json:"results"`
	Errors    []usecase.ScanError  `json:"errors"`
	Cached    bool                 `json:"cached"`
}

// arbitrageReportToDTO rounds for display: invSum and roi to four decimals,
// stake percentages to two.
func arbitrageReportToDTO(report usecase.ArbitrageReport) arbitrageReportDTO {
	arbs := make([]arbitrageDTO, 0, len(report.Arbs))
	for _, opp := range report.Arbs {
		plan := make([]stakeDTO, 0, len(opp.StakePlan))
		for _, stake := range opp.StakePlan {
			plan = append(plan, stakeDTO{
				Selection:     stake.Outcome,
				BookmakerName: stake.BookmakerName,
				Odds:          stake.Odds,
				StakePct:      roundTo(stake.StakePct, 2),
			})
		}
		arbs = append(arbs, arbitrageDTO{
			FixtureID: report.FixtureID,
			Market:    opp.Market,
			Legs:      opp.Legs,
			InvSum:    roundTo(opp.InverseOddsSum, 4),
			ROI:       roundTo(opp.ROI, 4),
			StakePlan: plan,
		})
	}

	return arbitrageReportDTO{
		FixtureID:      report.FixtureID,
		MarketsChecked: report.MarketsChecked,
		LegsCount:      report.LegsCount,
		Arbs:           arbs,
	}
}

func arbitrageScanToDTO(result usecase.ArbitrageScanResult) arbitrageScanDTO {
	items := make([]arbitrageReportDTO, 0, len(result.Results))
	for _, report := range result.Results {
		items = append(items, arbitrageReportToDTO(report))
	}
	errs := result.Errors
	if errs == nil {
		errs = []usecase.ScanError{}
	}

	return arbitrageScanDTO{
		LeagueKey: result.LeagueKey,
		Season:    result.Season,
		From:      result.From,
		To:        result.To,
		MinROI:    result.MinROI,
		Checked:   result.Checked,
		Results:   items,
		Errors:    errs,
		Cached:    result.Cached,
	}
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
