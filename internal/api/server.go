// Package api exposes the ledger engine over HTTP. Every endpoint
// answers with a {success, data|message} envelope; read endpoints are
// cheap, the monthly summary is memoized until the next mutation.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kasa/internal/cache"
	"kasa/internal/core"
	"kasa/internal/ledger"
	"kasa/internal/log"
)

type Server struct {
	engine         *ledger.Engine
	logger         *log.Logger
	summaryCache   *cache.LRUCache[core.MonthlySummary]
	metricsEnabled bool
}

func NewServer(engine *ledger.Engine, logger *log.Logger) *Server {
	return &Server{
		engine:       engine,
		logger:       logger.WithComponent("api"),
		summaryCache: cache.NewLRUCache[core.MonthlySummary](24, 5*time.Minute),
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(securityHeaders)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/notes", func(r chi.Router) {
			r.Get("/", s.handleListNotes)
			r.Post("/", s.handleCreateNote)
			r.Put("/{id}", s.handleUpdateNote)
			r.Delete("/{id}", s.handleDeleteNote)
			r.Put("/{id}/alarm", s.handleSetAlarm)
			r.Delete("/{id}/alarm", s.handleClearAlarm)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleCreateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/installments", func(r chi.Router) {
			r.Get("/", s.handleListInstallments)
			r.Post("/", s.handleCreateInstallment)
			r.Put("/{id}", s.handleResizeInstallment)
			r.Delete("/{id}", s.handleDeleteInstallment)
			r.Post("/{id}/pay", s.handlePayInstallment)
			r.Post("/{id}/toggle/{month}", s.handleToggleInstallment)
		})

		r.Get("/summary/{year}/{month}", s.handleMonthlySummary)

		r.Get("/balance", s.handleGetBalance)
		r.Put("/balance", s.handleSetBalance)
	})

	return r
}
