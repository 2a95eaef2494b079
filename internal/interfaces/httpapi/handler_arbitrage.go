package httpapi

import (
	"net/http"

	"github.com/asstoyanov/predictor-mcp/internal/usecase"
	"go.opentelemetry.io/otel/attribute"
)

func (h *Handler) FindArbitrage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FindArbitrage")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := arbitrageRequest{
		FixtureID: q.Int64("fixtureId"),
		MinROI:    q.FloatPtr("minRoi"),
	}
	if err := q.Err(); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(attribute.Int64("fixture.id", req.FixtureID))

	report, err := h.arbitrageService.Find(ctx, req.FixtureID, floatOr(req.MinROI, 0))
	if err != nil {
		h.logger.WarnContext(ctx, "find arbitrage failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, arbitrageReportToDTO(report))
}

func (h *Handler) ScanArbitrage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScanArbitrage")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := arbitrageScanRequest{
		LeagueKey: q.String("leagueKey"),
		Season:    q.Int("season"),
		From:      q.String("from"),
		To:        q.String("to"),
		MinROI:    q.FloatPtr("minRoi"),
		Limit:     q.IntPtr("limit"),
	}
	if err := q.Err(); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	span.SetAttributes(
		attribute.String("league.key", req.LeagueKey),
		attribute.Int("league.season", req.Season),
	)

	result, err := h.arbitrageService.ScanLeague(ctx, usecase.ArbitrageScanInput{
		LeagueKey: req.LeagueKey,
		Season:    req.Season,
		From:      req.From,
		To:        req.To,
		MinROI:    floatOr(req.MinROI, 0),
		Limit:     req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "scan arbitrage failed", "league_key", req.LeagueKey, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, arbitrageScanToDTO(result))
}
