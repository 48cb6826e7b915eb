package handler

import (
	"net/http"

	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/metrics"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// RouteRegistrar is implemented by every handler that owns routes
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

// NewRouter builds the application router with the middleware chain and a
// /metrics endpoint, then lets each handler register its routes
func NewRouter(log logger.Logger, m *metrics.Metrics, handlers ...RouteRegistrar) *mux.Router {
	router := mux.NewRouter()

	// Recovery sits innermost so panicking requests are still logged and counted
	router.Use(
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.MetricsMiddleware(m),
		middleware.RecoveryMiddleware(log),
	)

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}

	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	return router
}
