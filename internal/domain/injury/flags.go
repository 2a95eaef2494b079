package injury

import "strings"

type FlagCode string

const (
	FlagTopScorerOut     FlagCode = "TOP_SCORER_OUT"
	FlagTopAssisterOut   FlagCode = "TOP_ASSISTER_OUT"
	FlagFirstChoiceGKOut FlagCode = "FIRST_CHOICE_GK_OUT"
	FlagDefCoreOut       FlagCode = "DEF_CORE_OUT"
	FlagAttackCoreOut    FlagCode = "ATTACK_CORE_OUT"

	coreOutThreshold = 2
	coreOutListed    = 3
)

type FlagPlayer struct {
	PlayerID int64  `json:"playerId"`
	Name     string `json:"playerName"`
	Position string `json:"position,omitempty"`
}

// Flag explains a notable absence. Stat holds the figures behind it, keyed
// by name (rank, goals, assists, minutes, appearances, count).
type Flag struct {
	Code     FlagCode       `json:"code"`
	TeamID   int64          `json:"teamId"`
	TeamName string         `json:"teamName"`
	PlayerID int64          `json:"playerId,omitempty"`
	Player   string         `json:"playerName,omitempty"`
	Players  []FlagPlayer   `json:"players,omitempty"`
	Stat     map[string]int `json:"stat"`
}

// PickLeaders selects the season's top scorer and top assister (first one
// wins a tie) and the goalkeeper with the most minutes, then appearances.
// Leaders with a zero total are left out.
func PickLeaders(squad []PlayerSeason) Leaders {
	var leaders Leaders
	var scorer, assister, keeper *PlayerSeason

	for i := range squad {
		p := &squad[i]
		if p.PlayerID <= 0 || strings.TrimSpace(p.Name) == "" {
			continue
		}
		if scorer == nil || p.Goals > scorer.Goals {
			scorer = p
		}
		if assister == nil || p.Assists > assister.Assists {
			assister = p
		}
		if p.IsGoalkeeper() {
			if keeper == nil || p.Minutes > keeper.Minutes || (p.Minutes == keeper.Minutes && p.Appearances > keeper.Appearances) {
				keeper = p
			}
		}
	}

	if scorer != nil && scorer.Goals > 0 {
		leaders.TopScorer = &Scorer{PlayerID: scorer.PlayerID, Name: scorer.Name, Goals: scorer.Goals}
	}
	if assister != nil && assister.Assists > 0 {
		leaders.TopAssister = &Assister{PlayerID: assister.PlayerID, Name: assister.Name, Assists: assister.Assists}
	}
	if keeper != nil && keeper.Minutes > 0 {
		leaders.FirstChoiceGK = &Goalkeeper{
			PlayerID:    keeper.PlayerID,
			Name:        keeper.Name,
			Minutes:     keeper.Minutes,
			Appearances: keeper.Appearances,
		}
	}
	return leaders
}

// BuildFlags matches one team's absences against its leaders and position
// groups.
func BuildFlags(teamID int64, teamName string, out []Absence, leaders Leaders) []Flag {
	outIDs := make(map[int64]struct{}, len(out))
	for _, a := range out {
		outIDs[a.PlayerID] = struct{}{}
	}
	isOut := func(playerID int64) bool {
		_, ok := outIDs[playerID]
		return ok
	}

	flags := make([]Flag, 0, 2)
	if s := leaders.TopScorer; s != nil && isOut(s.PlayerID) {
		flags = append(flags, Flag{
			Code: FlagTopScorerOut, TeamID: teamID, TeamName: teamName,
			PlayerID: s.PlayerID, Player: s.Name,
			Stat: map[string]int{"rank": 1, "goals": s.Goals},
		})
	}
	if a := leaders.TopAssister; a != nil && isOut(a.PlayerID) {
		flags = append(flags, Flag{
			Code: FlagTopAssisterOut, TeamID: teamID, TeamName: teamName,
			PlayerID: a.PlayerID, Player: a.Name,
			Stat: map[string]int{"rank": 1, "assists": a.Assists},
		})
	}
	if gk := leaders.FirstChoiceGK; gk != nil && isOut(gk.PlayerID) {
		flags = append(flags, Flag{
			Code: FlagFirstChoiceGKOut, TeamID: teamID, TeamName: teamName,
			PlayerID: gk.PlayerID, Player: gk.Name,
			Stat: map[string]int{"rank": 1, "minutes": gk.Minutes, "appearances": gk.Appearances},
		})
	}

	if defenders := filterByPosition(out, "back", "def"); len(defenders) >= coreOutThreshold {
		flags = append(flags, coreFlag(FlagDefCoreOut, teamID, teamName, defenders))
	}
	if attackers := filterByPosition(out, "forward", "wing", "att"); len(attackers) >= coreOutThreshold {
		flags = append(flags, coreFlag(FlagAttackCoreOut, teamID, teamName, attackers))
	}
	return flags
}

// ForTeam keeps the identifiable absences of one team in provider order.
func ForTeam(absences []Absence, teamID int64) []Absence {
	out := make([]Absence, 0, len(absences))
	for _, a := range absences {
		if a.TeamID == teamID && a.PlayerID > 0 && strings.TrimSpace(a.Name) != "" {
			out = append(out, a)
		}
	}
	return out
}

func filterByPosition(out []Absence, needles ...string) []Absence {
	matched := make([]Absence, 0, len(out))
	for _, a := range out {
		position := strings.ToLower(a.Position)
		for _, needle := range needles {
			if strings.Contains(position, needle) {
				matched = append(matched, a)
				break
			}
		}
	}
	return matched
}

func coreFlag(code FlagCode, teamID int64, teamName string, players []Absence) Flag {
	listed := players
	if len(listed) > coreOutListed {
		listed = listed[:coreOutListed]
	}
	out := make([]FlagPlayer, 0, len(listed))
	for _, p := range listed {
		out = append(out, FlagPlayer{PlayerID: p.PlayerID, Name: p.Name, Position: p.Position})
	}
	return Flag{
		Code:     code,
		TeamID:   teamID,
		TeamName: teamName,
		Players:  out,
		Stat:     map[string]int{"count": len(players)},
	}
}
