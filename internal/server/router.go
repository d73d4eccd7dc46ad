// Package server exposes the repositories over a local HTTP surface: a JSON
// API plus the app-shell pages the offline controller pre-caches.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"centavo/internal/engine"
	"centavo/internal/service"
	"centavo/internal/storage"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Server bundles the handlers and their dependencies.
type Server struct {
	repos  *storage.Repositories
	auth   *service.AuthService
	eng    *engine.Engine
	logger *slog.Logger
}

// New creates a server over the given repositories, auth service and engine.
func New(repos *storage.Repositories, auth *service.AuthService, eng *engine.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repos: repos, auth: auth, eng: eng, logger: logger}
}

// Router builds the full route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// App shell pages, pre-cached by the offline controller.
	for _, page := range shellPages {
		r.Get(page.Path, s.servePage(page))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/pin", s.handleChangePin)

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", s.handleCreateCategory)
			r.Put("/{id}", s.handleUpdateCategory)
			r.Delete("/{id}", s.handleDeleteCategory)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", s.handleCreateTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/categories", s.handleListCategories)
			r.Get("/categories/totals", s.handleCategoryTotals)
			r.Get("/transactions", s.handleListTransactions)
			r.Get("/transactions/recent", s.handleRecentTransactions)
			r.Get("/reports/summary", s.handleBalanceSummary)
			r.Get("/reports/monthly", s.handleMonthlyComparison)
			r.Get("/reports/breakdown", s.handleCategoryBreakdown)
			r.Get("/settings", s.handleGetSettings)
			r.Put("/settings", s.handleUpdateSettings)
		})

		r.Get("/backup", s.handleBackup)
	})

	return r
}
