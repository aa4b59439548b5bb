package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/paperiq/paperiq-api/internal/api"
	apiMiddleware "github.com/paperiq/paperiq-api/internal/api/middleware"
	"github.com/paperiq/paperiq-api/internal/api/shared"
)

// Credential endpoints are brute-forceable, so they get a tighter per-IP
// budget than the rest of the API.
const authRequestsPerMinute = 10

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.accountStore, app.jwtService)
	analysisHandler := api.NewAnalysisHandler(app.analysisService)
	historyHandler := api.NewHistoryHandler(app.historyStore)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	authRateLimiter := httprate.Limit(
		authRequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(
				w,
				r,
				http.StatusTooManyRequests,
				"Too many requests, slow down",
			)
		}),
	)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public, rate limited)
		r.Group(func(r chi.Router) {
			r.Use(authRateLimiter)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/analyze", analysisHandler.Analyze)
			r.Get("/history", historyHandler.List)
			r.Delete("/history/{position}", historyHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
