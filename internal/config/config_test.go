package config

import (
	"testing"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_API_KEY", "test-key")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresAPIKey(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APIFOOTBALL_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when APIFOOTBALL_API_KEY is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected HTTPAddr: %q", cfg.HTTPAddr)
	}
	if cfg.APIFootballBaseURL != "https://v3.football.api-sports.io" {
		t.Fatalf("unexpected APIFootballBaseURL: %q", cfg.APIFootballBaseURL)
	}
	if cfg.APIFootballTimezone != "Europe/Sofia" {
		t.Fatalf("unexpected APIFootballTimezone: %q", cfg.APIFootballTimezone)
	}
	if cfg.PredictBookmaker != "Bet365" {
		t.Fatalf("unexpected PredictBookmaker: %q", cfg.PredictBookmaker)
	}
	if cfg.ScanCacheTTL != 60*time.Second || cfg.FixturesCacheTTL != 60*time.Second {
		t.Fatalf("unexpected cache ttls: scan=%s fixtures=%s", cfg.ScanCacheTTL, cfg.FixturesCacheTTL)
	}
	if cfg.LeadersCacheTTL != 12*time.Hour {
		t.Fatalf("unexpected LeadersCacheTTL: %s", cfg.LeadersCacheTTL)
	}
	if cfg.ScanDefaultConcurrency != 6 {
		t.Fatalf("unexpected ScanDefaultConcurrency: %d", cfg.ScanDefaultConcurrency)
	}
	if !cfg.APIFootballCircuitEnabled {
		t.Fatalf("expected circuit breaker enabled by default")
	}
	if cfg.LogLevel != logging.LevelInfo {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
	if cfg.PyroscopeAppName != cfg.ServiceName {
		t.Fatalf("expected pyroscope app name to default to service name, got %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SCAN_CACHE_TTL", "2m")
	t.Setenv("SCAN_DEFAULT_CONCURRENCY", "9")
	t.Setenv("APIFOOTBALL_CIRCUIT_ENABLED", "false")
	t.Setenv("PREDICT_BOOKMAKER", "Pinnacle")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel != logging.LevelDebug {
		t.Fatalf("unexpected LogLevel: %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORSAllowedOrigins: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.ScanCacheTTL != 2*time.Minute {
		t.Fatalf("unexpected ScanCacheTTL: %s", cfg.ScanCacheTTL)
	}
	if cfg.ScanDefaultConcurrency != 9 {
		t.Fatalf("unexpected ScanDefaultConcurrency: %d", cfg.ScanDefaultConcurrency)
	}
	if cfg.APIFootballCircuitEnabled {
		t.Fatalf("expected circuit breaker disabled")
	}
	if cfg.PredictBookmaker != "Pinnacle" {
		t.Fatalf("unexpected PredictBookmaker: %q", cfg.PredictBookmaker)
	}
}

func TestLoad_RejectsOutOfRangeValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{key: "SCAN_DEFAULT_CONCURRENCY", value: "13"},
		{key: "SCAN_DEFAULT_CONCURRENCY", value: "abc"},
		{key: "PREDICT_RECENT_WINDOW", value: "0"},
		{key: "APIFOOTBALL_MAX_RETRIES", value: "9"},
		{key: "SCAN_CACHE_TTL", value: "soon"},
		{key: "LEADERS_CACHE_TTL", value: "-1s"},
		{key: "PPROF_ENABLED", value: "maybe"},
		{key: "APP_LOG_LEVEL", value: "loud"},
	}

	for _, tc := range tests {
		t.Run(tc.key+"="+tc.value, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.value)
			}
		})
	}
}

func TestLoad_PyroscopeRequiresServerWhenEnabled(t *testing.T) {
	setRequired(t)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" a, ,b ,")
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("unexpected split: %v", got)
	}
}
