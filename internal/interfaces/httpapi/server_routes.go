package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET "+openAPIPath, handler.OpenAPI)
	mux.HandleFunc("GET "+docsPath, handler.SwaggerUI)
	mux.HandleFunc("GET "+docsPath+"/", handler.SwaggerUI)
}

func registerPredictorRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/leagues", handler.ListLeagues)
	mux.HandleFunc("GET /v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /v1/predict", handler.Predict)
	mux.HandleFunc("GET /v1/scan", handler.Scan)
	mux.HandleFunc("POST /v1/scan", handler.ScanBody)
	mux.HandleFunc("GET /v1/arbitrage", handler.FindArbitrage)
	mux.HandleFunc("GET /v1/arbitrage/scan", handler.ScanArbitrage)
}
