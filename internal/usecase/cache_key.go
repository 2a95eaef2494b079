package usecase

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

type scanCacheKey struct {
	LeagueKey   string   `json:"leagueKey"`
	Season      int      `json:"season"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	MinEdge     float64  `json:"minEdge"`
	OnlyValue   bool     `json:"onlyValue"`
	MinOdds     *float64 `json:"minOdds"`
	Market      string   `json:"market"`
	Concurrency int      `json:"concurrency"`
	Limit       *int     `json:"limit"`
}

type arbitrageScanCacheKey struct {
	LeagueKey string  `json:"leagueKey"`
	Season    int     `json:"season"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	MinROI    float64 `json:"minRoi"`
	Limit     *int    `json:"limit"`
}

// buildCacheKey prefixes the JSON form of key. Struct fields encode in
// declaration order, so equal inputs give equal keys.
func buildCacheKey(prefix string, key any) (string, error) {
	raw, err := sonic.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("encode %s cache key: %w", prefix, err)
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(prefix)
	_ = buf.WriteByte('|')
	_, _ = buf.Write(raw)
	return buf.String(), nil
}
