package httpapi

import (
	"fmt"
	"net/http"

	"github.com/asstoyanov/predictor-mcp/internal/domain/odds"
	"github.com/asstoyanov/predictor-mcp/internal/usecase"
	jsoniter "github.com/json-iterator/go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxScanBodyBytes = 64 << 10

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Predict")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := predictRequest{
		FixtureID: q.Int64("fixtureId"),
		MinEdge:   q.FloatPtr("minEdge"),
		Bookmaker: q.String("bookmaker"),
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

	pred, err := h.predictionService.Predict(ctx, usecase.PredictInput{
		FixtureID: req.FixtureID,
		MinEdge:   floatOr(req.MinEdge, odds.DefaultMinEdge),
		Bookmaker: req.Bookmaker,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "predict fixture failed", "fixture_id", req.FixtureID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pred)
}

func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Scan")
	defer span.End()

	q := newQueryReader(r.URL.Query())
	req := scanRequest{
		LeagueKey:   q.String("leagueKey"),
		Season:      q.Int("season"),
		From:        q.String("from"),
		To:          q.String("to"),
		MinEdge:     q.FloatPtr("minEdge"),
		OnlyValue:   q.Bool("onlyValue"),
		MinOdds:     q.FloatPtr("minOdds"),
		Market:      q.String("market"),
		Concurrency: q.Int("concurrency"),
		Limit:       q.IntPtr("limit"),
	}
	if err := q.Err(); err != nil {
		writeError(ctx, w, err)
		return
	}

	h.scan(w, r.WithContext(ctx), req)
}

// ScanBody accepts the same parameters as Scan as a JSON document.
func (h *Handler) ScanBody(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ScanBody")
	defer span.End()

	var req scanRequest
	decoder := jsoniter.NewDecoder(http.MaxBytesReader(w, r.Body, maxScanBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	h.scan(w, r.WithContext(ctx), req)
}

func (h *Handler) scan(w http.ResponseWriter, r *http.Request, req scanRequest) {
	ctx := r.Context()
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("league.key", req.LeagueKey),
		attribute.Int("league.season", req.Season),
	)

	result, err := h.scanService.Scan(ctx, usecase.ScanInput{
		LeagueKey:   req.LeagueKey,
		Season:      req.Season,
		From:        req.From,
		To:          req.To,
		MinEdge:     floatOr(req.MinEdge, odds.DefaultMinEdge),
		OnlyValue:   req.OnlyValue,
		MinOdds:     req.MinOdds,
		Market:      req.Market,
		Concurrency: req.Concurrency,
		Limit:       req.Limit,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "scan fixtures failed", "league_key", req.LeagueKey, "season", req.Season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
