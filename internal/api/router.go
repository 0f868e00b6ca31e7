package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mika/watchlog/internal/api/handlers"
	"github.com/mika/watchlog/internal/api/middleware"
	"github.com/mika/watchlog/internal/config"
	"github.com/mika/watchlog/internal/service"
	"golang.org/x/time/rate"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.RateLimit(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	searchHandler := handlers.NewSearchHandler(services.Library)
	entriesHandler := handlers.NewEntriesHandler(services.Library)
	statsHandler := handlers.NewStatsHandler(services.Stats)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Get("/movies/search", searchHandler.Search)

			r.Route("/entries", func(r chi.Router) {
				r.Post("/", entriesHandler.Create)
				r.Get("/", entriesHandler.List)
			})

			r.Get("/stats", statsHandler.Overview)
		})
	})

	return r
}
