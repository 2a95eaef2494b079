package app

import (
	"fmt"
	"net/http"

	"github.com/asstoyanov/predictor-mcp/external/apifootball"
	"github.com/asstoyanov/predictor-mcp/internal/config"
	"github.com/asstoyanov/predictor-mcp/internal/domain/fixture"
	"github.com/asstoyanov/predictor-mcp/internal/domain/injury"
	"github.com/asstoyanov/predictor-mcp/internal/domain/league"
	"github.com/asstoyanov/predictor-mcp/internal/interfaces/httpapi"
	"github.com/asstoyanov/predictor-mcp/internal/platform/cache"
	idgen "github.com/asstoyanov/predictor-mcp/internal/platform/id"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/asstoyanov/predictor-mcp/internal/platform/resilience"
	"github.com/asstoyanov/predictor-mcp/internal/usecase"
)

// NewHTTPServer builds the process-wide caches once and hands them to the
// services by reference.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	catalog, err := league.DefaultCatalog()
	if err != nil {
		return nil, fmt.Errorf("load league catalog: %w", err)
	}

	client := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:    cfg.APIFootballBaseURL,
		APIKey:     cfg.APIFootballAPIKey,
		Timezone:   cfg.APIFootballTimezone,
		Timeout:    cfg.APIFootballTimeout,
		MaxRetries: cfg.APIFootballMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.BreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})
	fixtureRepo := apifootball.NewFixtureRepository(client)
	formRepo := apifootball.NewTeamFormRepository(client)
	oddsRepo := apifootball.NewOddsRepository(client)
	injuryRepo := apifootball.NewInjuryRepository(client)

	leagueSvc := usecase.NewLeagueService(catalog)
	fixtureSvc := usecase.NewFixtureService(leagueSvc, fixtureRepo, cache.NewStore[[]fixture.Fixture](cfg.FixturesCacheTTL))
	predictionSvc := usecase.NewPredictionService(
		fixtureRepo,
		formRepo,
		oddsRepo,
		injuryRepo,
		cache.NewStore[injury.Leaders](cfg.LeadersCacheTTL),
		usecase.PredictionConfig{
			Bookmaker:    cfg.PredictBookmaker,
			RecentWindow: cfg.PredictRecentWindow,
		},
		logger,
	)
	scanSvc := usecase.NewScanService(
		fixtureSvc,
		predictionSvc,
		cache.NewStore[usecase.ScanResult](cfg.ScanCacheTTL),
		cfg.ScanDefaultConcurrency,
		logger,
	)
	arbitrageSvc := usecase.NewArbitrageService(
		fixtureSvc,
		oddsRepo,
		cache.NewStore[usecase.ArbitrageScanResult](cfg.ScanCacheTTL),
		cfg.ArbitrageWorkers,
		logger,
	)

	handler := httpapi.NewHandler(leagueSvc, fixtureSvc, predictionSvc, scanSvc, arbitrageSvc, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterConfig{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		SwaggerEnabled:     cfg.SwaggerEnabled,
		IDGenerator:        idgen.NewRequestIDGenerator(),
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}
