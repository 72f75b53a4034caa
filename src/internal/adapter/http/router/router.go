package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vkdrn/bank-rest-api/src/internal/adapter/http/middleware"
	"github.com/vkdrn/bank-rest-api/src/internal/adapter/repository/repo_interfaces"
	"github.com/vkdrn/bank-rest-api/src/internal/logger"
)

const apiPrefix = "/api/v1"

type RouteRegistrar interface {
	RegisterRoutes(r *mux.Router)
}

// New mounts the controllers under /api/v1 next to /health, /metrics and the API docs.
func New(health repo_interfaces.HealthChecker, log *logger.Logger, controllers ...RouteRegistrar) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID(log), middleware.Tracing, middleware.Metrics)

	registerSwaggerRoutes(r)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", healthHandler(health)).Methods(http.MethodGet)

	api := r.PathPrefix(apiPrefix).Subrouter()
	for _, c := range controllers {
		if c != nil {
			c.RegisterRoutes(api)
		}
	}

	return r
}

func healthHandler(health repo_interfaces.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := health.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}
