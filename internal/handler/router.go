package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloud-ru/mortgage-calc-go/internal/config"
	"github.com/cloud-ru/mortgage-calc-go/internal/middleware"
)

// NewRouter собирает маршруты сервиса.
// Лимитер применяется только к расчётным эндпоинтам.
func NewRouter(cfg *config.Config, tracer trace.Tracer, log logrus.FieldLogger, limiter *middleware.RateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(log))
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "method not allowed"})
	})

	r.HandleFunc("/healthz", HealthHandler(cfg)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	r.Handle("/calculate", middleware.RateLimit(limiter, config.RouteCalculate)(
		CalculateHandler(cfg, tracer, log))).Methods(http.MethodPost)
	r.Handle("/compare", middleware.RateLimit(limiter, config.RouteCompare)(
		CompareHandler(cfg, tracer, log))).Methods(http.MethodPost)

	return r
}
