package httpapi

import (
	"net/http"

	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
	"github.com/asstoyanov/predictor-mcp/internal/usecase"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	leagueService     *usecase.LeagueService
	fixtureService    *usecase.FixtureService
	predictionService *usecase.PredictionService
	scanService       *usecase.ScanService
	arbitrageService  *usecase.ArbitrageService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	fixtureService *usecase.FixtureService,
	predictionService *usecase.PredictionService,
	scanService *usecase.ScanService,
	arbitrageService *usecase.ArbitrageService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		leagueService:     leagueService,
		fixtureService:    fixtureService,
		predictionService: predictionService,
		scanService:       scanService,
		arbitrageService:  arbitrageService,
		logger:            logger,
		validator:         validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.leagueService.ListLeagues(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, l := range leagues {
		items = append(items, leagueToDTO(l))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListFixtures(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFixtures")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := fixturesRequest{
		LeagueKey: q.String("leagueKey"),
		Season:    q.Int("season"),
		From:      q.String("from"),
		To:        q.String("to"),
	}
	if err := q.Err(); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	list, err := h.fixtureService.ListByLeague(ctx, usecase.FixtureQuery{
		LeagueKey: req.LeagueKey,
		Season:    req.Season,
		From:      req.From,
		To:        req.To,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list fixtures failed", "league_key", req.LeagueKey, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, list)
}
