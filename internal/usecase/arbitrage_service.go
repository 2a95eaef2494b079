package usecase

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/asstoyanov/predictor-mcp/internal/domain/market"
	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	"github.com/asstoyanov/predictor-mcp/internal/platform/cache"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/panjf2000/ants/v2"
)

const (
	DefaultArbitrageWorkers = 6
	MaxMinROI               = 0.5
)

type ArbitrageReport struct {
	FixtureID      int64              `json:"fixtureId"`
	MarketsChecked []market.Kind      `json:"marketsChecked"`
	LegsCount      int                `json:"legsCount"`
	Arbs           []odds.Opportunity `json:"arbs"`
}

type ArbitrageScanInput struct {
	LeagueKey string
	Season    int
	From      string
	To        string
	MinROI    float64
	Limit     *int
}

type ArbitrageScanResult struct {
	LeagueKey string            `json:"leagueKey"`
	Season    int               `json:"season"`
	From      string            `json:"from"`
	To        string            `json:"to"`
	MinROI    float64           `json:"minRoi"`
	Checked   int               `json:"checked"`
	Results   []ArbitrageReport `json:"results"`
	Errors    []ScanError       `json:"errors"`
	Cached    bool              `json:"cached"`
}

type ArbitrageService struct {
	fixtures *FixtureService
	oddsRepo odds.Repository
	cache    *cache.Store[ArbitrageScanResult]
	workers  int
	logger   *logging.Logger
}

func NewArbitrageService(
	fixtures *FixtureService,
	oddsRepo odds.Repository,
	store *cache.Store[ArbitrageScanResult],
	workers int,
	logger *logging.Logger,
) *ArbitrageService {
	if workers <= 0 {
		workers = DefaultArbitrageWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ArbitrageService{
		fixtures: fixtures,
		oddsRepo: oddsRepo,
		cache:    store,
		workers:  workers,
		logger:   logger,
	}
}

// Find compares every bookmaker's prices for one fixture.
func (s *ArbitrageService) Find(ctx context.Context, fixtureID int64, minROI float64) (ArbitrageReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArbitrageService.Find")
	defer span.End()

	if fixtureID <= 0 {
		return ArbitrageReport{}, fmt.Errorf("%w: fixture id must be positive", ErrInvalidInput)
	}
	if err := validateMinROI(minROI); err != nil {
		return ArbitrageReport{}, err
	}

	return s.find(ctx, fixtureID, minROI)
}

func (s *ArbitrageService) find(ctx context.Context, fixtureID int64, minROI float64) (ArbitrageReport, error) {
	blocks, err := s.oddsRepo.ListByFixture(ctx, fixtureID)
	if err != nil {
		return ArbitrageReport{}, fmt.Errorf("list odds: %w", err)
	}

	quotes := odds.QuotesFromBlocks(blocks)
	return ArbitrageReport{
		FixtureID:      fixtureID,
		MarketsChecked: slices.Clone(market.ArbitrageChecked),
		LegsCount:      len(quotes),
		Arbs:           odds.FindArbitrage(quotes, minROI),
	}, nil
}

// ScanLeague runs Find over a league window on a bounded worker pool and
// keeps only fixtures with at least one opportunity, best return first.
func (s *ArbitrageService) ScanLeague(ctx context.Context, input ArbitrageScanInput) (ArbitrageScanResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ArbitrageService.ScanLeague")
	defer span.End()

	if err := validateMinROI(input.MinROI); err != nil {
		return ArbitrageScanResult{}, err
	}
	if input.Limit != nil && (*input.Limit < 1 || *input.Limit > MaxScanLimit) {
		return ArbitrageScanResult{}, fmt.Errorf("%w: limit must be between 1 and %d", ErrInvalidInput, MaxScanLimit)
	}

	query := FixtureQuery{
		LeagueKey: input.LeagueKey,
		Season:    input.Season,
		From:      input.From,
		To:        input.To,
	}
	if err := validateFixtureQuery(&query); err != nil {
		return ArbitrageScanResult{}, err
	}

	key, err := buildCacheKey("arbscan", arbitrageScanCacheKey{
		LeagueKey: query.LeagueKey,
		Season:    query.Season,
		From:      query.From,
		To:        query.To,
		MinROI:    input.MinROI,
		Limit:     input.Limit,
	})
	if err != nil {
		return ArbitrageScanResult{}, err
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			cached.Cached = true
			return cached, nil
		}
	}

	list, err := s.fixtures.ListByLeague(ctx, query)
	if err != nil {
		return ArbitrageScanResult{}, fmt.Errorf("resolve fixtures: %w", err)
	}
	fixtures := list.Fixtures
	if input.Limit != nil && *input.Limit < len(fixtures) {
		fixtures = fixtures[:*input.Limit]
	}

	workerCount := min(s.workers, len(fixtures))
	if workerCount < 1 {
		workerCount = 1
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ArbitrageScanResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		workers  sync.WaitGroup
		reports  = make([]ArbitrageReport, 0)
		failures = make([]ScanError, 0)
		checked  int
	)
	work := context.WithoutCancel(ctx)
	for _, item := range fixtures {
		if item.ID <= 0 {
			failures = append(failures, ScanError{FixtureID: item.ID, Error: errMissingFixtureID})
			continue
		}
		fixtureID := item.ID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			report, err := s.find(work, fixtureID, input.MinROI)

			mu.Lock()
			defer mu.Unlock()
			checked++
			if err != nil {
				failures = append(failures, ScanError{FixtureID: fixtureID, Error: err.Error()})
				return
			}
			if len(report.Arbs) > 0 {
				reports = append(reports, report)
			}
		}); err != nil {
			workers.Done()
			return ArbitrageScanResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}
	workers.Wait()

	sort.SliceStable(reports, func(i, j int) bool {
		ri, rj := bestROI(reports[i]), bestROI(reports[j])
		if ri != rj {
			return ri > rj
		}
		return reports[i].FixtureID < reports[j].FixtureID
	})
	sort.SliceStable(failures, func(i, j int) bool {
		return failures[i].FixtureID < failures[j].FixtureID
	})

	payload := ArbitrageScanResult{
		LeagueKey: query.LeagueKey,
		Season:    query.Season,
		From:      query.From,
		To:        query.To,
		MinROI:    input.MinROI,
		Checked:   checked,
		Results:   reports,
		Errors:    failures,
	}
	if s.cache != nil {
		s.cache.Set(ctx, key, payload)
	}

	s.logger.InfoContext(ctx, "arbitrage scan finished",
		"league", query.LeagueKey,
		"checked", checked,
		"with_arbs", len(reports),
		"errors", len(failures),
	)
	return payload, nil
}

func validateMinROI(minROI float64) error {
	if math.IsNaN(minROI) || minROI < 0 || minROI > MaxMinROI {
		return fmt.Errorf("%w: min roi must be between 0 and %.1f", ErrInvalidInput, MaxMinROI)
	}
	return nil
}

func bestROI(report ArbitrageReport) float64 {
	best := math.Inf(-1)
	for _, arb := range report.Arbs {
		best = math.Max(best, arb.ROI)
	}
	return best
}
