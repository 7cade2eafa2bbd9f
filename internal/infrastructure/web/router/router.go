package router

import (
	_ "btc-price-service/internal/docs"
	"btc-price-service/internal/infrastructure/metrics"
	"btc-price-service/internal/infrastructure/web/handlers"
	"btc-price-service/internal/infrastructure/web/middleware"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers agrupa los handlers que expone el router
type Handlers struct {
	Prices *handlers.PricesHandler
	Health *handlers.HealthHandler
}

// New builds the HTTP router with every route and the middleware chain
func New(h Handlers) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/prices", h.Prices.GetPrices).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health.Health).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Health.Ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/prices", h.Prices.GetPrices).Methods(http.MethodGet)

	// Se envuelve el router completo (no r.Use) para que los 404 y 405
	// tambien lleven X-Request-ID y cuenten en las metricas
	var handler http.Handler = r
	handler = metrics.HTTPMetricsMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestTracingMiddleware(handler)

	return handler
}
