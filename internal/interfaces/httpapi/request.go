package httpapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/asstoyanov/predictor-mcp/internal/usecase"
)

type fixturesRequest struct {
	LeagueKey string `json:"leagueKey" validate:"required,max=32"`
	Season    int    `json:"season" validate:"gte=1900,lte=2100"`
	From      string `json:"from" validate:"required,datetime=2006-01-02"`
	To        string `json:"to" validate:"required,datetime=2006-01-02"`
}

type predictRequest struct {
	FixtureID int64    `json:"fixtureId" validate:"gt=0"`
	MinEdge   *float64 `json:"minEdge" validate:"omitempty,gte=0,lte=0.5"`
	Bookmaker string   `json:"bookmaker" validate:"omitempty,max=64"`
}

type scanRequest struct {
	LeagueKey   string   `json:"leagueKey" validate:"required,max=32"`
	Season      int      `json:"season" validate:"gte=1900,lte=2100"`
	From        string   `json:"from" validate:"required,datetime=2006-01-02"`
	To          string   `json:"to" validate:"required,datetime=2006-01-02"`
	MinEdge     *float64 `json:"minEdge" validate:"omitempty,gte=0,lte=0.5"`
	OnlyValue   bool     `json:"onlyValue"`
	MinOdds     *float64 `json:"minOdds" validate:"omitempty,gte=1,lte=1000"`
	Market      string   `json:"market" validate:"omitempty,oneof=all 1x2 btts ou25 draw"`
	Concurrency int      `json:"concurrency" validate:"omitempty,gte=1,lte=12"`
	Limit       *int     `json:"limit" validate:"omitempty,gte=1,lte=500"`
}

type arbitrageRequest struct {
	FixtureID int64    `json:"fixtureId" validate:"gt=0"`
	MinROI    *float64 `json:"minRoi" validate:"omitempty,gte=0,lte=0.5"`
}

type arbitrageScanRequest struct {
	LeagueKey string   `json:"leagueKey" validate:"required,max=32"`
	Season    int      `json:"season" validate:"gte=1900,lte=2100"`
	From      string   `json:"from" validate:"required,datetime=2006-01-02"`
	To        string   `json:"to" validate:"required,datetime=2006-01-02"`
	MinROI    *float64 `json:"minRoi" validate:"omitempty,gte=0,lte=0.5"`
	Limit     *int     `json:"limit" validate:"omitempty,gte=1,lte=500"`
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// queryReader parses typed query parameters and keeps the first failure so
// handlers can check once after reading every field.
type queryReader struct {
	values url.Values
	err    error
}

func newQueryReader(values url.Values) *queryReader {
	return &queryReader{values: values}
}

func (q *queryReader) raw(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q *queryReader) fail(key, kind string) {
	if q.err == nil {
		q.err = fmt.Errorf("%w: %s must be %s", usecase.ErrInvalidInput, key, kind)
	}
}

func (q *queryReader) String(key string) string {
	return q.raw(key)
}

func (q *queryReader) Int(key string) int {
	v := q.IntPtr(key)
	if v == nil {
		return 0
	}
	return *v
}

func (q *queryReader) IntPtr(key string) *int {
	raw := q.raw(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		q.fail(key, "an integer")
		return nil
	}
	return &v
}

func (q *queryReader) Int64(key string) int64 {
	raw := q.raw(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.fail(key, "an integer")
		return 0
	}
	return v
}

func (q *queryReader) FloatPtr(key string) *float64 {
	raw := q.raw(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.fail(key, "a number")
		return nil
	}
	return &v
}

func (q *queryReader) Bool(key string) bool {
	raw := q.raw(key)
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		q.fail(key, "a boolean")
		return false
	}
	return v
}

func (q *queryReader) Err() error {
	return q.err
}
