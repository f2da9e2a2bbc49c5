package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"calc-ledger/internal/handlers"
	"calc-ledger/internal/history"
	"calc-ledger/internal/observability"
)

func NewRouter(store *history.Store) http.Handler {

	r := chi.NewRouter()

	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)

	r.Get("/health", handlers.Health)

	r.Handle("/metrics", observability.PrometheusHandler())

	history.RegisterRoutes(r, store)

	return r
}
