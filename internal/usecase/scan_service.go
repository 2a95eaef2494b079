package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/domain/market"
	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	"github.com/asstoyanov/predictor-mcp/internal/platform/cache"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
)

const (
	DefaultScanConcurrency = 6
	MaxScanConcurrency     = 12
	MaxScanLimit           = 500
	MaxMinEdge             = 0.5
	MaxMinOdds             = 1000.0

	MarketFilterAll  = "all"
	MarketFilterDraw = "draw"

	missingRank = -999.0
)

type ScanInput struct {
	LeagueKey   string
	Season      int
	From        string
	To          string
	MinEdge     float64
	OnlyValue   bool
	MinOdds     *float64
	Market      string
	Concurrency int
	Limit       *int
}

type ScanFixtureResult struct {
	FixtureID  int64      `json:"fixtureId"`
	Prediction Prediction `json:"prediction"`
}

const errMissingFixtureID = "missing fixture id"

type ScanError struct {
	FixtureID int64  `json:"fixtureId"`
	Error     string `json:"error"`
}

type ScanFilters struct {
	MinEdge   float64  `json:"minEdge"`
	OnlyValue bool     `json:"onlyValue"`
	MinOdds   *float64 `json:"minOdds"`
	Market    string   `json:"market"`
}

type ScanResult struct {
	LeagueKey string              `json:"leagueKey"`
	Season    int                 `json:"season"`
	From      string              `json:"from"`
	To        string              `json:"to"`
	Count     int                 `json:"count"`
	Fixtures  []fixture.Fixture   `json:"fixtures"`
	Results   []ScanFixtureResult `json:"results"`
	Errors    []ScanError         `json:"errors"`
	Filters   ScanFilters         `json:"filters"`
	Cached    bool                `json:"cached"`
}

type ScanService struct {
	fixtures          *FixtureService
	predictions       *PredictionService
	cache             *cache.Store[ScanResult]
	defaultConcurrent int
	logger            *logging.Logger
}

func NewScanService(
	fixtures *FixtureService,
	predictions *PredictionService,
	store *cache.Store[ScanResult],
	defaultConcurrency int,
	logger *logging.Logger,
) *ScanService {
	if defaultConcurrency <= 0 || defaultConcurrency > MaxScanConcurrency {
		defaultConcurrency = DefaultScanConcurrency
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ScanService{
		fixtures:          fixtures,
		predictions:       predictions,
		cache:             store,
		defaultConcurrent: defaultConcurrency,
		logger:            logger,
	}
}

// Scan predicts every fixture of a league window with a fixed number of
// workers. A failing fixture is reported in Errors and never fails the scan.
// A repeat call with the same inputs inside the cache TTL returns the stored
// payload flagged as cached.
func (s *ScanService) Scan(ctx context.Context, input ScanInput) (ScanResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScanService.Scan")
	defer span.End()

	input, err := s.normalizeScanInput(input)
	if err != nil {
		return ScanResult{}, err
	}

	key, err := buildCacheKey("scan", scanCacheKey{
		LeagueKey:   input.LeagueKey,
		Season:      input.Season,
		From:        input.From,
		To:          input.To,
		MinEdge:     input.MinEdge,
		OnlyValue:   input.OnlyValue,
		MinOdds:     input.MinOdds,
		Market:      input.Market,
		Concurrency: input.Concurrency,
		Limit:       input.Limit,
	})
	if err != nil {
		return ScanResult{}, err
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			cached.Cached = true
			return cached, nil
		}
	}

	list, err := s.fixtures.ListByLeague(ctx, FixtureQuery{
		LeagueKey: input.LeagueKey,
		Season:    input.Season,
		From:      input.From,
		To:        input.To,
	})
	if err != nil {
		return ScanResult{}, fmt.Errorf("resolve fixtures: %w", err)
	}

	fixtures := list.Fixtures
	if input.Limit != nil && *input.Limit < len(fixtures) {
		fixtures = fixtures[:*input.Limit]
	}

	// a scan that has started runs to completion, even if the caller leaves
	results, scanErrors := s.predictAll(context.WithoutCancel(ctx), fixtures, input)

	for i := range results {
		pred := &results[i].Prediction
		if pred.OddsAvailable {
			pred.Top = filterTop(pred.Top, input)
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := bestRank(results[i].Prediction), bestRank(results[j].Prediction)
		if ri != rj {
			return ri > rj
		}
		return results[i].FixtureID < results[j].FixtureID
	})
	sort.SliceStable(scanErrors, func(i, j int) bool {
		return scanErrors[i].FixtureID < scanErrors[j].FixtureID
	})

	payload := ScanResult{
		LeagueKey: input.LeagueKey,
		Season:    input.Season,
		From:      input.From,
		To:        input.To,
		Count:     len(fixtures),
		Fixtures:  fixtures,
		Results:   results,
		Errors:    scanErrors,
		Filters: ScanFilters{
			MinEdge:   input.MinEdge,
			OnlyValue: input.OnlyValue,
			MinOdds:   input.MinOdds,
			Market:    input.Market,
		},
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, payload)
	}

	s.logger.InfoContext(ctx, "league scan finished",
		"league", input.LeagueKey,
		"season", input.Season,
		"fixtures", len(fixtures),
		"results", len(results),
		"errors", len(scanErrors),
	)
	return payload, nil
}

func (s *ScanService) predictAll(ctx context.Context, fixtures []fixture.Fixture, input ScanInput) ([]ScanFixtureResult, []ScanError) {
	var (
		mu         sync.Mutex
		cursor     int
		results    = make([]ScanFixtureResult, 0, len(fixtures))
		scanErrors = make([]ScanError, 0)
	)
	for _, item := range fixtures {
		if item.ID <= 0 {
			scanErrors = append(scanErrors, ScanError{FixtureID: item.ID, Error: errMissingFixtureID})
		}
	}

	next := func() (int64, bool) {
		mu.Lock()
		defer mu.Unlock()
		for cursor < len(fixtures) {
			id := fixtures[cursor].ID
			cursor++
			if id > 0 {
				return id, true
			}
		}
		return 0, false
	}

	workers := min(input.Concurrency, len(fixtures))
	wg := conc.NewWaitGroup()
	for range workers {
		wg.Go(func() {
			for {
				fixtureID, ok := next()
				if !ok {
					return
				}

				pred, err := s.predictOne(ctx, fixtureID, input.MinEdge)

				mu.Lock()
				if err != nil {
					scanErrors = append(scanErrors, ScanError{FixtureID: fixtureID, Error: err.Error()})
				} else {
					results = append(results, ScanFixtureResult{FixtureID: fixtureID, Prediction: pred})
				}
				mu.Unlock()

				if err != nil {
					s.logger.WarnContext(ctx, "scan fixture failed",
						"fixture_id", fixtureID,
						"error", err,
					)
				}
			}
		})
	}
	wg.Wait()

	return results, scanErrors
}

// predictOne turns a panic inside the pipeline into an error for that
// fixture only.
func (s *ScanService) predictOne(ctx context.Context, fixtureID int64, minEdge float64) (pred Prediction, err error) {
	var catcher panics.Catcher
	catcher.Try(func() {
		pred, err = s.predictions.Predict(ctx, PredictInput{FixtureID: fixtureID, MinEdge: minEdge})
	})
	if recovered := catcher.Recovered(); recovered != nil {
		return Prediction{}, fmt.Errorf("predict fixture %d: %w", fixtureID, recovered.AsError())
	}
	return pred, err
}

func (s *ScanService) normalizeScanInput(input ScanInput) (ScanInput, error) {
	input.LeagueKey = strings.ToLower(strings.TrimSpace(input.LeagueKey))
	input.From = strings.TrimSpace(input.From)
	input.To = strings.TrimSpace(input.To)

	input.Market = strings.ToLower(strings.TrimSpace(input.Market))
	if input.Market == "" {
		input.Market = MarketFilterAll
	}
	if !validMarketFilter(input.Market) {
		return ScanInput{}, fmt.Errorf("%w: unknown market filter %q", ErrInvalidInput, input.Market)
	}

	if math.IsNaN(input.MinEdge) || input.MinEdge < 0 || input.MinEdge > MaxMinEdge {
		return ScanInput{}, fmt.Errorf("%w: min edge must be between 0 and %.1f", ErrInvalidInput, MaxMinEdge)
	}
	if input.MinOdds != nil {
		v := *input.MinOdds
		if math.IsNaN(v) || v < 1 || v > MaxMinOdds {
			return ScanInput{}, fmt.Errorf("%w: min odds must be between 1 and %.0f", ErrInvalidInput, MaxMinOdds)
		}
	}

	if input.Concurrency == 0 {
		input.Concurrency = s.defaultConcurrent
	}
	if input.Concurrency < 1 || input.Concurrency > MaxScanConcurrency {
		return ScanInput{}, fmt.Errorf("%w: concurrency must be between 1 and %d", ErrInvalidInput, MaxScanConcurrency)
	}
	if input.Limit != nil && (*input.Limit < 1 || *input.Limit > MaxScanLimit) {
		return ScanInput{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxScanLimit)
	}

	return input, nil
}

func validMarketFilter(filter string) bool {
	switch filter {
	case MarketFilterAll, MarketFilterDraw:
		return true
	default:
		return market.Kind(filter).Valid()
	}
}

// filterTop keeps the entries passing the market, value and price filters
// and tags each with its severity. When nothing passes, the unfiltered list
// is kept so the fixture still shows its picks.
func filterTop(top []odds.EdgeResult, input ScanInput) []odds.EdgeResult {
	kept := make([]odds.EdgeResult, 0, len(top))
	for _, entry := range top {
		if passesFilters(entry, input) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == 0 {
		kept = append(kept, top...)
	}
	for i := range kept {
		kept[i].Severity = kept[i].Classify()
	}
	return kept
}

func passesFilters(entry odds.EdgeResult, input ScanInput) bool {
	switch input.Market {
	case MarketFilterAll:
	case MarketFilterDraw:
		if entry.Market != market.Kind1X2 || entry.Outcome != market.OutcomeDraw {
			return false
		}
	default:
		if string(entry.Market) != input.Market {
			return false
		}
	}
	if input.OnlyValue && !entry.IsValue {
		return false
	}
	if input.MinOdds != nil && !(entry.Odds >= *input.MinOdds) {
		return false
	}
	return true
}

func bestRank(pred Prediction) float64 {
	if len(pred.Top) == 0 {
		return missingRank
	}
	return pred.Top[0].RankValue()
}
