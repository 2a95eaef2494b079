package injury

import "strings"

// Absence is a player listed as unavailable for a fixture.
type Absence struct {
	TeamID   int64
	PlayerID int64
	Name     string
	Position string
	Reason   string
}

// PlayerSeason is one squad member's season totals from the first
// statistics block the provider returns.
type PlayerSeason struct {
	PlayerID    int64
	Name        string
	Position    string
	Goals       int
	Assists     int
	Minutes     int
	Appearances int
}

func (p PlayerSeason) IsGoalkeeper() bool {
	switch strings.ToUpper(strings.TrimSpace(p.Position)) {
	case "GOALKEEPER", "GK":
		return true
	default:
		return false
	}
}

type Scorer struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
}

type Assister struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"name"`
	Assists  int    `json:"assists"`
}

type Goalkeeper struct {
	PlayerID    int64  `json:"playerId"`
	Name        string `json:"name"`
	Minutes     int    `json:"minutes"`
	Appearances int    `json:"appearances"`
}

// Leaders are a team's key players for the season. Nil fields mean no player
// qualified.
type Leaders struct {
	TopScorer     *Scorer     `json:"topScorer,omitempty"`
	TopAssister   *Assister   `json:"topAssister,omitempty"`
	FirstChoiceGK *Goalkeeper `json:"firstChoiceGK,omitempty"`
}
