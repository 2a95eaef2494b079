package httpapi

import (
	"net/http"

	"github.com/asstoyanov/predictor-mcp/internal/platform/id"
	"github.com/asstoyanov/predictor-mcp/internal/platform/logging"
)

type RouterConfig struct {
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	IDGenerator        id.Generator
}

func NewRouter(handler *Handler, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = id.NewRequestIDGenerator()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, cfg.SwaggerEnabled)
	registerPredictorRoutes(mux, handler)

	return RequestTracing(RequestID(cfg.IDGenerator, RequestLogging(logger, CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				logger.ErrorContext(ctx, "panic recovered", "panic", rec, "request_id", requestIDFromContext(ctx))
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
