package fixture

import (
	"fmt"
	"strings"
	"time"
)

// Short status codes used by the provider.
const (
	StatusNotStarted = "NS"
	StatusFinished   = "FT"
	StatusAfterExtra = "AET"
	StatusPenalties  = "PEN"
)

type Team struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Fixture is one match in a league listing.
type Fixture struct {
	ID         int64     `json:"fixtureId"`
	KickoffAt  time.Time `json:"date"`
	Status     string    `json:"status"`
	LeagueID   int64     `json:"leagueId"`
	LeagueName string    `json:"league"`
	Round      string    `json:"round,omitempty"`
	Season     int       `json:"season"`
	Home       Team      `json:"home"`
	Away       Team      `json:"away"`
	HomeGoals  *int      `json:"homeGoals,omitempty"`
	AwayGoals  *int      `json:"awayGoals,omitempty"`
}

// Meta is what the prediction pipeline needs to know about a fixture.
type Meta struct {
	FixtureID    int64
	HomeTeamID   int64
	AwayTeamID   int64
	HomeTeamName string
	AwayTeamName string
	Season       int
}

func (m Meta) Validate() error {
	missing := make([]string, 0, 5)
	if m.HomeTeamID <= 0 {
		missing = append(missing, "home team id")
	}
	if m.AwayTeamID <= 0 {
		missing = append(missing, "away team id")
	}
	if strings.TrimSpace(m.HomeTeamName) == "" {
		missing = append(missing, "home team name")
	}
	if strings.TrimSpace(m.AwayTeamName) == "" {
		missing = append(missing, "away team name")
	}
	if m.Season <= 0 {
		missing = append(missing, "season")
	}
	if len(missing) > 0 {
		return fmt.Errorf("fixture %d missing %s", m.FixtureID, strings.Join(missing, ", "))
	}
	return nil
}

// Query selects a league's fixtures between two calendar dates (inclusive,
// YYYY-MM-DD).
type Query struct {
	LeagueID int64
	Season   int
	From     string
	To       string
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusNotStarted
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, StatusAfterExtra, StatusPenalties:
		return true
	default:
		return false
	}
}
