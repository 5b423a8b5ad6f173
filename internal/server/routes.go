package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/middleware"
	"github.com/omnilingu/backend/internal/utils"
	"github.com/omnilingu/backend/internal/utils/ratelimit"
)

// SetupRoutes configures the routes for the application. Protected
// routes require a valid identity token in the X-Auth-Token header;
// auth-sensitive endpoints additionally carry a tighter rate limit.
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	allowedOrigins := getAllowedOrigins()
	r.Use(corsMiddleware(allowedOrigins))

	// Base middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery())
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders())
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogger())
	}

	s.rateLimits = ratelimit.NewStore(
		ratelimit.Rate{RequestsPerSecond: constants.DefaultAPIRatePerSecond, Burst: constants.DefaultAPIRateBurst},
		constants.RateLimitCleanupInterval,
		constants.RateLimitMaxIdle,
	)
	s.rateLimits.SetRate(middleware.CategoryAuth,
		ratelimit.Rate{RequestsPerSecond: constants.AuthRatePerSecond, Burst: constants.AuthRateBurst})

	requireAuth := auth.RequireAuth(s.authenticator)

	// Health check and version routes (unprotected)
	r.Group(func(r chi.Router) {
		r.Get(constants.HealthPath, s.healthHandler)
		r.Get(constants.VersionPath, func(w http.ResponseWriter, r *http.Request) {
			utils.JSON(w, constants.StatusOK, map[string]string{
				"version":     s.Config.App.Version,
				"environment": s.Config.App.Environment,
			})
		})
	})

	// Uploaded files are public once the random stored name is known
	r.Handle("/storage/*", http.FileServer(http.Dir(s.files.Root())))

	r.Route(constants.APIBasePath, func(r chi.Router) {
		r.Use(middleware.RateLimit(s.rateLimits, middleware.CategoryAPI))

		// Account registration and credential endpoints share the
		// tighter auth rate limit
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(s.rateLimits, middleware.CategoryAuth))

			r.Post("/users", s.Handlers.UserHandler.Register)
			r.Post("/auth", s.Handlers.AuthHandler.Login)
			r.Put("/auth/forgot", s.Handlers.AuthHandler.ForgotPassword)
			r.Put("/auth/reset/password", s.Handlers.AuthHandler.ResetPassword)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/auth", s.Handlers.AuthHandler.GetCurrentUser)
			r.Delete("/users/{id}", s.Handlers.UserHandler.DeleteAccount)

			r.Route("/decks", func(r chi.Router) {
				r.Get("/", s.Handlers.DeckHandler.ListDecks)
				r.Post("/", s.Handlers.DeckHandler.CreateDeck)
				r.Get("/{id}", s.Handlers.DeckHandler.GetDeck)
				r.Put("/{id}", s.Handlers.DeckHandler.UpdateDeck)
				r.Delete("/{id}", s.Handlers.DeckHandler.DeleteDeck)
				r.Put("/{id}/thumbnail/delete", s.Handlers.DeckHandler.RemoveThumbnail)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Post("/", s.Handlers.CardHandler.CreateCard)
				r.Get("/deck/{deckID}", s.Handlers.CardHandler.ListCards)
				r.Get("/revise/{deckID}", s.Handlers.CardHandler.ReviseCard)
				r.Get("/{id}", s.Handlers.CardHandler.GetCard)
				r.Put("/{id}", s.Handlers.CardHandler.UpdateCard)
				r.Delete("/{id}", s.Handlers.CardHandler.DeleteCard)
				r.Put("/{id}/file/delete", s.Handlers.CardHandler.RemoveFile)
			})
		})
	})

	s.router = r
}

// GetRouter returns the configured router. Primarily used by tests.
func (s *Server) GetRouter() chi.Router {
	return s.router
}

// healthHandler answers 200 when the database is reachable and 503
// otherwise.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.Db.HealthCheck(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		utils.Error(w, http.StatusServiceUnavailable, "service_unavailable", "Service is not healthy", nil)
		return
	}

	utils.JSON(w, constants.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

// corsMiddleware adds CORS headers for allowed origins and answers
// OPTIONS preflight requests directly.
func corsMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")

					if r.Method != http.MethodOptions {
						next.ServeHTTP(w, r)
						return
					}

					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
					w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, X-Request-ID, "+constants.HeaderAuthToken)
					w.Header().Set("Access-Control-Max-Age", "300")

					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			// Origin not allowed: continue without CORS headers
			next.ServeHTTP(w, r)
		})
	}
}

// getAllowedOrigins reads allowed CORS origins from the environment or
// falls back to defaults covering production and local development.
func getAllowedOrigins() []string {
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")

	if allowedOriginsEnv != "" {
		origins := strings.Split(allowedOriginsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		log.Info().Strs("allowed_origins", origins).Msg("Using CORS allowed origins from environment")
		return origins
	}

	defaultOrigins := []string{
		"https://omnilingu.app",
		"https://www.omnilingu.app",
		"http://localhost:5173",
		"http://localhost:3000",
	}
	log.Info().Strs("allowed_origins", defaultOrigins).Msg("Using default CORS allowed origins")
	return defaultOrigins
}
