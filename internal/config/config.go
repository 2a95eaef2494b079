package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	LogLevel           logging.Level
	LogFile            string
	SwaggerEnabled     bool

	APIFootballBaseURL               string
	APIFootballAPIKey                string
	APIFootballTimezone              string
	APIFootballTimeout               time.Duration
	APIFootballMaxRetries            int
	APIFootballCircuitEnabled        bool
	APIFootballCircuitFailureCount   int
	APIFootballCircuitOpenTimeout    time.Duration
	APIFootballCircuitHalfOpenMaxReq int

	PredictBookmaker       string
	PredictRecentWindow    int
	ScanCacheTTL           time.Duration
	FixturesCacheTTL       time.Duration
	LeadersCacheTTL        time.Duration
	ScanDefaultConcurrency int
	ArbitrageWorkers       int

	PprofEnabled bool
	PprofAddr    string

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	cfg := Config{
		AppEnv:                     appEnv,
		ServiceName:                getEnv("APP_SERVICE_NAME", "predictor-api"),
		ServiceVersion:             getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                   getEnv("APP_HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:         splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                   logLevel,
		LogFile:                    strings.TrimSpace(getEnv("APP_LOG_FILE", "")),
		APIFootballBaseURL:         strings.TrimSpace(getEnv("APIFOOTBALL_BASE_URL", "https://v3.football.api-sports.io")),
		APIFootballAPIKey:          strings.TrimSpace(getEnv("APIFOOTBALL_API_KEY", "")),
		APIFootballTimezone:        strings.TrimSpace(getEnv("APIFOOTBALL_TIMEZONE", "Europe/Sofia")),
		PredictBookmaker:           strings.TrimSpace(getEnv("PREDICT_BOOKMAKER", "Bet365")),
		PprofAddr:                  strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		PyroscopeServerAddress:     strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:         strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:     strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	durations := []struct {
		key      string
		fallback string
		dst      *time.Duration
	}{
		{key: "APP_READ_TIMEOUT", fallback: "10s", dst: &cfg.ReadTimeout},
		{key: "APP_WRITE_TIMEOUT", fallback: "60s", dst: &cfg.WriteTimeout},
		{key: "APIFOOTBALL_TIMEOUT", fallback: "20s", dst: &cfg.APIFootballTimeout},
		{key: "APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT", fallback: "15s", dst: &cfg.APIFootballCircuitOpenTimeout},
		{key: "SCAN_CACHE_TTL", fallback: "60s", dst: &cfg.ScanCacheTTL},
		{key: "FIXTURES_CACHE_TTL", fallback: "60s", dst: &cfg.FixturesCacheTTL},
		{key: "LEADERS_CACHE_TTL", fallback: "12h", dst: &cfg.LeadersCacheTTL},
		{key: "PYROSCOPE_UPLOAD_RATE", fallback: "15s", dst: &cfg.PyroscopeUploadRate},
	}
	for _, item := range durations {
		value, err := time.ParseDuration(getEnv(item.key, item.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}

	ints := []struct {
		key      string
		fallback int
		dst      *int
	}{
		{key: "APIFOOTBALL_MAX_RETRIES", fallback: 1, dst: &cfg.APIFootballMaxRetries},
		{key: "APIFOOTBALL_CIRCUIT_FAILURE_COUNT", fallback: 5, dst: &cfg.APIFootballCircuitFailureCount},
		{key: "APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", fallback: 2, dst: &cfg.APIFootballCircuitHalfOpenMaxReq},
		{key: "PREDICT_RECENT_WINDOW", fallback: 20, dst: &cfg.PredictRecentWindow},
		{key: "SCAN_DEFAULT_CONCURRENCY", fallback: 6, dst: &cfg.ScanDefaultConcurrency},
		{key: "ARBITRAGE_WORKERS", fallback: 6, dst: &cfg.ArbitrageWorkers},
	}
	for _, item := range ints {
		value, err := getEnvAsInt(item.key, item.fallback)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}

	bools := []struct {
		key      string
		fallback string
		dst      *bool
	}{
		{key: "APIFOOTBALL_CIRCUIT_ENABLED", fallback: "true", dst: &cfg.APIFootballCircuitEnabled},
		{key: "SWAGGER_ENABLED", fallback: "false", dst: &cfg.SwaggerEnabled},
		{key: "PPROF_ENABLED", fallback: "false", dst: &cfg.PprofEnabled},
		{key: "PYROSCOPE_ENABLED", fallback: "false", dst: &cfg.PyroscopeEnabled},
	}
	for _, item := range bools {
		value, err := strconv.ParseBool(getEnv(item.key, item.fallback))
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", item.key, err)
		}
		*item.dst = value
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges that the environment parsers cannot express.
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{ok: strings.TrimSpace(c.ServiceName) != "", msg: "APP_SERVICE_NAME is required"},
		{ok: strings.TrimSpace(c.HTTPAddr) != "", msg: "APP_HTTP_ADDR is required"},
		{ok: c.ReadTimeout > 0, msg: "APP_READ_TIMEOUT must be > 0"},
		{ok: c.WriteTimeout > 0, msg: "APP_WRITE_TIMEOUT must be > 0"},
		{ok: len(c.CORSAllowedOrigins) > 0, msg: "CORS_ALLOWED_ORIGINS must not be empty"},
		{ok: c.APIFootballBaseURL != "", msg: "APIFOOTBALL_BASE_URL is required"},
		{ok: c.APIFootballAPIKey != "", msg: "APIFOOTBALL_API_KEY is required"},
		{ok: c.APIFootballTimezone != "", msg: "APIFOOTBALL_TIMEZONE is required"},
		{ok: c.APIFootballTimeout > 0, msg: "APIFOOTBALL_TIMEOUT must be > 0"},
		{ok: c.APIFootballMaxRetries >= 0 && c.APIFootballMaxRetries <= 5, msg: "APIFOOTBALL_MAX_RETRIES must be between 0 and 5"},
		{ok: c.APIFootballCircuitFailureCount > 0, msg: "APIFOOTBALL_CIRCUIT_FAILURE_COUNT must be > 0"},
		{ok: c.APIFootballCircuitOpenTimeout > 0, msg: "APIFOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0"},
		{ok: c.APIFootballCircuitHalfOpenMaxReq > 0, msg: "APIFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be > 0"},
		{ok: c.PredictBookmaker != "", msg: "PREDICT_BOOKMAKER is required"},
		{ok: c.PredictRecentWindow > 0 && c.PredictRecentWindow <= 50, msg: "PREDICT_RECENT_WINDOW must be between 1 and 50"},
		{ok: c.ScanCacheTTL > 0, msg: "SCAN_CACHE_TTL must be > 0"},
		{ok: c.FixturesCacheTTL > 0, msg: "FIXTURES_CACHE_TTL must be > 0"},
		{ok: c.LeadersCacheTTL > 0, msg: "LEADERS_CACHE_TTL must be > 0"},
		{ok: c.ScanDefaultConcurrency > 0 && c.ScanDefaultConcurrency <= 12, msg: "SCAN_DEFAULT_CONCURRENCY must be between 1 and 12"},
		{ok: c.ArbitrageWorkers > 0 && c.ArbitrageWorkers <= 32, msg: "ARBITRAGE_WORKERS must be between 1 and 32"},
		{ok: !c.PprofEnabled || c.PprofAddr != "", msg: "PPROF_ADDR is required when PPROF_ENABLED=true"},
		{ok: !c.PyroscopeEnabled || c.PyroscopeServerAddress != "", msg: "PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true"},
		{ok: !c.PyroscopeEnabled || c.PyroscopeAppName != "", msg: "PYROSCOPE_APP_NAME is required when PYROSCOPE_ENABLED=true"},
		{ok: c.PyroscopeUploadRate > 0, msg: "PYROSCOPE_UPLOAD_RATE must be > 0"},
	}
	for _, check := range checks {
		if !check.ok {
			return errors.New(check.msg)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
