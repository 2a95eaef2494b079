package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/domain/injury"
	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	"github.com/asstoyanov/predictor-mcp/internal/domain/teamform"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expectEmptyHistory(d *testDeps, meta fixture.Meta) {
	d.formRepo.
		On("ListRecent", mock.Anything, meta.HomeTeamID, meta.Season, teamform.DefaultWindow).
		Return([]teamform.Result{}, nil).
		Once()
	d.formRepo.
		On("ListRecent", mock.Anything, meta.AwayTeamID, meta.Season, teamform.DefaultWindow).
		Return([]teamform.Result{}, nil).
		Once()
}

func TestPredictionService_Predict_WithBet365Odds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(501)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(501)).Return(meta, nil).Once()
	expectEmptyHistory(d, meta)
	d.oddsRepo.
		On("ListByFixture", sameCtx(ctx), int64(501)).
		Return([]odds.BookmakerBlock{bookmaker(11, "Pinnacle"), bet365Sheet()}, nil).
		Once()

	got, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 501, MinEdge: 0.05})
	require.NoError(t, err)

	require.Equal(t, "elo+poisson", got.Model.Name)
	require.Equal(t, 1500.0, got.Model.HomeElo)
	require.Equal(t, 1.45, got.Model.LambdaHome)
	require.Equal(t, 1.15, got.Model.LambdaAway)
	require.InDelta(t, 0.440, got.Markets.OneXTwo.Home, 1e-9)
	require.InDelta(t, 0.523, got.Markets.BTTS.Yes, 1e-9)

	require.True(t, got.OddsAvailable)
	require.Equal(t, &BookmakerRef{ID: 8, Name: "Bet365"}, got.Bookmaker)
	require.Empty(t, got.Note)
	require.Nil(t, got.Injuries)
	require.Len(t, got.Top, 6, "seven priced outcomes are cut to the best six")
	for i := 1; i < len(got.Top); i++ {
		require.GreaterOrEqual(t, got.Top[i-1].RankValue(), got.Top[i].RankValue())
	}
}

func TestPredictionService_Predict_ModelOnlyWithoutPreferredBookmaker(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(502)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(502)).Return(meta, nil).Once()
	expectEmptyHistory(d, meta)
	d.oddsRepo.
		On("ListByFixture", sameCtx(ctx), int64(502)).
		Return([]odds.BookmakerBlock{bookmaker(11, "Pinnacle", bet("Match Winner", "Home", 2.0, "Draw", 3.3, "Away", 4.0))}, nil).
		Once()

	got, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 502, MinEdge: 0.05})
	require.NoError(t, err)
	require.False(t, got.OddsAvailable)
	require.Nil(t, got.Bookmaker)
	require.Empty(t, got.Top)
	require.Equal(t, "Bet365 odds not available for this fixture.", got.Note)
	require.InDelta(t, 1.0, got.Markets.OneXTwo.Home+got.Markets.OneXTwo.Draw+got.Markets.OneXTwo.Away, 1e-6)
}

func TestPredictionService_Predict_ModelOnlyWithoutAnyOdds(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(503)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(503)).Return(meta, nil).Once()
	expectEmptyHistory(d, meta)
	d.oddsRepo.On("ListByFixture", sameCtx(ctx), int64(503)).Return(nil, nil).Once()

	got, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 503})
	require.NoError(t, err)
	require.False(t, got.OddsAvailable)
	require.NotEmpty(t, got.Note)
}

func TestPredictionService_Predict_BookmakerOverride(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(504)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(504)).Return(meta, nil).Once()
	expectEmptyHistory(d, meta)
	d.oddsRepo.
		On("ListByFixture", sameCtx(ctx), int64(504)).
		Return([]odds.BookmakerBlock{
			bet365Sheet(),
			bookmaker(4, "Pinnacle", bet("Both Teams Score", "Yes", 1.85, "No", 2.0)),
		}, nil).
		Once()

	got, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 504, MinEdge: 0.05, Bookmaker: " pinnacle "})
	require.NoError(t, err)
	require.True(t, got.OddsAvailable)
	require.Equal(t, "Pinnacle", got.Bookmaker.Name)
	require.Len(t, got.Top, 2)
	for _, entry := range got.Top {
		require.Equal(t, "btts", string(entry.Market))
	}
}

func TestPredictionService_Predict_OddsFailureIsReturned(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(505)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(505)).Return(meta, nil).Once()
	expectEmptyHistory(d, meta)
	d.oddsRepo.
		On("ListByFixture", sameCtx(ctx), int64(505)).
		Return(nil, fmt.Errorf("%w: odds status 503", ErrDependencyUnavailable)).
		Once()

	_, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 505})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestPredictionService_Predict_IncompleteMeta(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(506)
	meta.AwayTeamID = 0
	meta.Season = 0

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(506)).Return(meta, nil).Once()

	_, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 506})
	if !errors.Is(err, ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData, got %v", err)
	}
}

func TestPredictionService_Predict_HistoryFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, false)
	meta := testMeta(507)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(507)).Return(meta, nil).Once()
	d.formRepo.
		On("ListRecent", mock.Anything, meta.HomeTeamID, meta.Season, teamform.DefaultWindow).
		Return(nil, ErrDependencyUnavailable).
		Maybe()
	d.formRepo.
		On("ListRecent", mock.Anything, meta.AwayTeamID, meta.Season, teamform.DefaultWindow).
		Return([]teamform.Result{}, nil).
		Maybe()

	_, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 507})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestPredictionService_Predict_RejectsBadFixtureID(t *testing.T) {
	t.Parallel()

	d := newTestDeps(t, false)
	if _, err := d.predictions.Predict(context.Background(), PredictInput{FixtureID: 0}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPredictionService_Predict_InjuryFlagsAndLeaderCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	d := newTestDeps(t, true)
	meta := testMeta(508)

	d.fixtureRepo.On("GetMeta", sameCtx(ctx), int64(508)).Return(meta, nil).Twice()
	d.formRepo.
		On("ListRecent", mock.Anything, mock.Anything, meta.Season, teamform.DefaultWindow).
		Return([]teamform.Result{}, nil).
		Times(4)
	d.oddsRepo.On("ListByFixture", sameCtx(ctx), int64(508)).Return(nil, nil).Twice()

	d.injuryRepo.
		On("ListByFixture", sameCtx(ctx), int64(508)).
		Return([]injury.Absence{
			{TeamID: meta.HomeTeamID, PlayerID: 9, Name: "Striker", Position: "Attacker"},
			{TeamID: meta.HomeTeamID, PlayerID: 7, Name: "Winger", Position: "Left Winger"},
			{TeamID: meta.AwayTeamID, PlayerID: 1, Name: "Keeper", Position: "Goalkeeper"},
		}, nil).
		Once()
	d.injuryRepo.
		On("ListByFixture", sameCtx(ctx), int64(508)).
		Return(nil, ErrDependencyUnavailable).
		Once()
	// leaders are cached per team and season, so each team is loaded once
	d.injuryRepo.
		On("ListSquadStats", mock.Anything, meta.HomeTeamID, meta.Season).
		Return([]injury.PlayerSeason{
			{PlayerID: 9, Name: "Striker", Position: "Attacker", Goals: 14, Minutes: 2100, Appearances: 25},
			{PlayerID: 7, Name: "Winger", Position: "Attacker", Goals: 5, Assists: 9, Minutes: 1900, Appearances: 24},
		}, nil).
		Once()
	d.injuryRepo.
		On("ListSquadStats", mock.Anything, meta.AwayTeamID, meta.Season).
		Return([]injury.PlayerSeason{
			{PlayerID: 1, Name: "Keeper", Position: "Goalkeeper", Minutes: 2250, Appearances: 25},
		}, nil).
		Once()

	got, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 508})
	require.NoError(t, err)
	require.NotNil(t, got.Injuries)
	require.True(t, got.Injuries.Available)
	require.Equal(t, 2, got.Injuries.Home.OutCount)
	require.Equal(t, []injury.FlagCode{injury.FlagTopScorerOut, injury.FlagTopAssisterOut, injury.FlagAttackCoreOut}, flagCodes(got.Injuries.Home.Flags))
	require.Equal(t, []injury.FlagCode{injury.FlagFirstChoiceGKOut}, flagCodes(got.Injuries.Away.Flags))

	again, err := d.predictions.Predict(ctx, PredictInput{FixtureID: 508})
	require.NoError(t, err, "injury failures never fail a prediction")
	require.False(t, again.Injuries.Available)
	require.Zero(t, again.Injuries.Home.OutCount)
	require.Empty(t, again.Injuries.Home.Flags)
}

func flagCodes(flags []injury.Flag) []injury.FlagCode {
	out := make([]injury.FlagCode, 0, len(flags))
	for _, f := range flags {
		out = append(out, f.Code)
	}
	return out
}
