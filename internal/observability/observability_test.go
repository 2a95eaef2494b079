package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asstoyanov/predictor-mcp/internal/config"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
)

func TestStartPprofServer_Disabled(t *testing.T) {
	if srv := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop()); srv != nil {
		t.Fatalf("expected no server when pprof is disabled")
	}
	if err := StopPprofServer(nil, nil, 0); err != nil {
		t.Fatalf("stopping a nil server should be a no-op: %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestInitPyroscope_DisabledIsNoop(t *testing.T) {
	stop, err := InitPyroscope(config.Config{PyroscopeEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init pyroscope: %v", err)
	}
	if err := stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestProfilerConfig(t *testing.T) {
	cfg := config.Config{
		AppEnv:                 config.EnvProd,
		ServiceName:            "predictor-api",
		ServiceVersion:         "1.4.0",
		PyroscopeServerAddress: "http://pyroscope:4040",
		PyroscopeUploadRate:    15 * time.Second,
	}

	got := profilerConfig(cfg)
	if got.ApplicationName != "predictor-api" {
		t.Fatalf("expected the service name as application, got %q", got.ApplicationName)
	}
	if got.Tags["env"] != config.EnvProd || got.Tags["version"] != "1.4.0" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if got.UploadRate != 15*time.Second || len(got.ProfileTypes) != len(profileTypes) {
		t.Fatalf("unexpected profiler config: %+v", got)
	}

	cfg.PyroscopeAppName = "predictor-api.canary"
	if got := profilerConfig(cfg).ApplicationName; got != "predictor-api.canary" {
		t.Fatalf("explicit application name ignored, got %q", got)
	}
}
