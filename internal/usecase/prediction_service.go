package usecase

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/domain/injury"
	"github.com/asstoyanov/predictor-mcp/internal/domain/market"
	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	"github.com/asstoyanov/predictor-mcp/internal/domain/rating"
	"github.com/asstoyanov/predictor-mcp/internal/domain/teamform"
	"github.com/asstoyanov/predictor-mcp/internal/platform/cache"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultBookmaker = "Bet365"
	ModelName        = "elo+poisson"

	topEdges = 6
)

type PredictionConfig struct {
	Bookmaker    string
	RecentWindow int
	MaxGoals     int
}

func (c PredictionConfig) normalized() PredictionConfig {
	if strings.TrimSpace(c.Bookmaker) == "" {
		c.Bookmaker = DefaultBookmaker
	}
	if c.RecentWindow <= 0 {
		c.RecentWindow = teamform.DefaultWindow
	}
	if c.MaxGoals <= 0 {
		c.MaxGoals = market.DefaultMaxGoals
	}
	return c
}

type PredictInput struct {
	FixtureID int64
	MinEdge   float64
	// Bookmaker overrides the configured preferred bookmaker when set.
	Bookmaker string
}

type ModelInfo struct {
	Name       string  `json:"name"`
	HomeElo    float64 `json:"homeElo"`
	AwayElo    float64 `json:"awayElo"`
	LambdaHome float64 `json:"lambdaHome"`
	LambdaAway float64 `json:"lambdaAway"`
}

type BookmakerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type TeamInjuries struct {
	TeamID     int64            `json:"teamId"`
	TeamName   string           `json:"teamName"`
	OutCount   int              `json:"outCount"`
	Flags      []injury.Flag    `json:"flags"`
	OutPlayers []injury.Absence `json:"outPlayers"`
}

type InjuryReport struct {
	Available bool         `json:"available"`
	Home      TeamInjuries `json:"home"`
	Away      TeamInjuries `json:"away"`
}

type Prediction struct {
	FixtureID     int64                `json:"fixtureId"`
	HomeTeam      string               `json:"homeTeam"`
	AwayTeam      string               `json:"awayTeam"`
	Season        int                  `json:"season"`
	Injuries      *InjuryReport        `json:"injuries,omitempty"`
	Model         ModelInfo            `json:"modelInfo"`
	Markets       market.Probabilities `json:"markets"`
	OddsAvailable bool                 `json:"oddsAvailable"`
	Bookmaker     *BookmakerRef        `json:"bookmaker"`
	Top           []odds.EdgeResult    `json:"top,omitempty"`
	Note          string               `json:"note,omitempty"`
}

type PredictionService struct {
	fixtureRepo fixture.Repository
	formRepo    teamform.Repository
	oddsRepo    odds.Repository
	injuryRepo  injury.Repository
	leaders     *cache.Store[injury.Leaders]
	cfg         PredictionConfig
	logger      *logging.Logger
}

// NewPredictionService builds the single-fixture pipeline. injuryRepo and
// leaders may be nil; injuries are then left out of predictions.
func NewPredictionService(
	fixtureRepo fixture.Repository,
	formRepo teamform.Repository,
	oddsRepo odds.Repository,
	injuryRepo injury.Repository,
	leaders *cache.Store[injury.Leaders],
	cfg PredictionConfig,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		fixtureRepo: fixtureRepo,
		formRepo:    formRepo,
		oddsRepo:    oddsRepo,
		injuryRepo:  injuryRepo,
		leaders:     leaders,
		cfg:         cfg.normalized(),
		logger:      logger,
	}
}

func (s *PredictionService) Predict(ctx context.Context, input PredictInput) (Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Predict")
	defer span.End()

	if input.FixtureID <= 0 {
		return Prediction{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}
	if math.IsNaN(input.MinEdge) {
		return Prediction{}, fmt.Errorf("%w: min edge must be a number", ErrInvalidInput)
	}

	meta, err := s.fixtureRepo.GetMeta(ctx, input.FixtureID)
	if err != nil {
		return Prediction{}, fmt.Errorf("get fixture meta: %w", err)
	}
	if err := meta.Validate(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %v", ErrIncompleteData, err)
	}

	homeRecent, awayRecent, err := s.recentForm(ctx, meta)
	if err != nil {
		return Prediction{}, err
	}

	homeElo := rating.FromResults(homeRecent, rating.Initial)
	awayElo := rating.FromResults(awayRecent, rating.Initial)
	rates := rating.ExpectedGoalRates(homeElo, awayElo)
	probs, err := market.Compute(rates.Home, rates.Away, s.cfg.MaxGoals)
	if err != nil {
		return Prediction{}, fmt.Errorf("compute markets: %w", err)
	}

	out := Prediction{
		FixtureID: meta.FixtureID,
		HomeTeam:  meta.HomeTeamName,
		AwayTeam:  meta.AwayTeamName,
		Season:    meta.Season,
		Injuries:  s.injuryReport(ctx, meta),
		Model: ModelInfo{
			Name:       ModelName,
			HomeElo:    round3(homeElo),
			AwayElo:    round3(awayElo),
			LambdaHome: round3(rates.Home),
			LambdaAway: round3(rates.Away),
		},
		Markets: probs,
	}

	blocks, err := s.oddsRepo.ListByFixture(ctx, meta.FixtureID)
	if err != nil {
		return Prediction{}, fmt.Errorf("list odds: %w", err)
	}
	if len(blocks) == 0 {
		out.Note = "No bookmakers found (model-only)."
		return out, nil
	}

	bookmaker := strings.TrimSpace(input.Bookmaker)
	if bookmaker == "" {
		bookmaker = s.cfg.Bookmaker
	}
	picked, ok := odds.PickBookmaker(blocks, bookmaker)
	if !ok {
		out.Note = bookmaker + " odds not available for this fixture."
		return out, nil
	}

	top := odds.NewScorer(input.MinEdge).ScoreMarkets(probs, picked.Quotes())
	if len(top) > topEdges {
		top = top[:topEdges]
	}
	out.OddsAvailable = true
	out.Bookmaker = &BookmakerRef{ID: picked.ID, Name: picked.Name}
	out.Top = top
	return out, nil
}

func (s *PredictionService) recentForm(ctx context.Context, meta fixture.Meta) ([]teamform.Result, []teamform.Result, error) {
	var homeRecent, awayRecent []teamform.Result

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		results, err := s.formRepo.ListRecent(ctx, meta.HomeTeamID, meta.Season, s.cfg.RecentWindow)
		if err != nil {
			return fmt.Errorf("list recent results team=%d: %w", meta.HomeTeamID, err)
		}
		homeRecent = results
		return nil
	})
	p.Go(func(ctx context.Context) error {
		results, err := s.formRepo.ListRecent(ctx, meta.AwayTeamID, meta.Season, s.cfg.RecentWindow)
		if err != nil {
			return fmt.Errorf("list recent results team=%d: %w", meta.AwayTeamID, err)
		}
		awayRecent = results
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	return homeRecent, awayRecent, nil
}

// injuryReport is best effort: provider failures only mark the report as
// unavailable.
func (s *PredictionService) injuryReport(ctx context.Context, meta fixture.Meta) *InjuryReport {
	if s.injuryRepo == nil {
		return nil
	}

	report := &InjuryReport{Available: true}
	absences, err := s.injuryRepo.ListByFixture(ctx, meta.FixtureID)
	if err != nil {
		s.logger.WarnContext(ctx, "list injuries failed",
			"fixture_id", meta.FixtureID,
			"error", err,
		)
		report.Available = false
		absences = nil
	}

	var homeLeaders, awayLeaders injury.Leaders
	wg := conc.NewWaitGroup()
	wg.Go(func() { homeLeaders = s.teamLeaders(ctx, meta.HomeTeamID, meta.Season) })
	wg.Go(func() { awayLeaders = s.teamLeaders(ctx, meta.AwayTeamID, meta.Season) })
	wg.Wait()

	report.Home = teamInjuries(meta.HomeTeamID, meta.HomeTeamName, absences, homeLeaders)
	report.Away = teamInjuries(meta.AwayTeamID, meta.AwayTeamName, absences, awayLeaders)
	return report
}

func (s *PredictionService) teamLeaders(ctx context.Context, teamID int64, season int) injury.Leaders {
	load := func(ctx context.Context) (injury.Leaders, error) {
		squad, err := s.injuryRepo.ListSquadStats(ctx, teamID, season)
		if err != nil {
			return injury.Leaders{}, err
		}
		return injury.PickLeaders(squad), nil
	}

	var (
		leaders injury.Leaders
		err     error
	)
	if s.leaders != nil {
		key := "leaders|" + strconv.FormatInt(teamID, 10) + "|" + strconv.Itoa(season)
		leaders, _, err = s.leaders.GetOrLoad(ctx, key, load)
	} else {
		leaders, err = load(ctx)
	}
	if err != nil {
		s.logger.WarnContext(ctx, "list squad stats failed",
			"team_id", teamID,
			"season", season,
			"error", err,
		)
		return injury.Leaders{}
	}
	return leaders
}

func teamInjuries(teamID int64, teamName string, absences []injury.Absence, leaders injury.Leaders) TeamInjuries {
	out := injury.ForTeam(absences, teamID)
	return TeamInjuries{
		TeamID:     teamID,
		TeamName:   teamName,
		OutCount:   len(out),
		Flags:      injury.BuildFlags(teamID, teamName, out, leaders),
		OutPlayers: out,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
