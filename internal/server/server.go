// Package server provides the HTTP server for the flashcard API. It
// handles routing, middleware configuration, and server lifecycle
// management.
//
// The server follows a structured initialization approach with
// dependency injection and proper lifecycle management: database →
// storage → auth → repositories → services → handlers → routes. It
// handles graceful shutdown and periodic maintenance tasks.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/omnilingu/backend/internal/auth"
	"github.com/omnilingu/backend/internal/config"
	"github.com/omnilingu/backend/internal/constants"
	"github.com/omnilingu/backend/internal/database"
	"github.com/omnilingu/backend/internal/handlers"
	"github.com/omnilingu/backend/internal/repository"
	"github.com/omnilingu/backend/internal/service"
	"github.com/omnilingu/backend/internal/storage"
	"github.com/omnilingu/backend/internal/utils/ratelimit"
	"github.com/omnilingu/backend/migrations"
	"github.com/omnilingu/backend/scripts"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	// AuthHandler manages login, session, and password reset endpoints
	AuthHandler *handlers.AuthHandler

	// UserHandler manages registration and account endpoints
	UserHandler *handlers.UserHandler

	// DeckHandler manages deck endpoints
	DeckHandler *handlers.DeckHandler

	// CardHandler manages card and revision endpoints
	CardHandler *handlers.CardHandler
}

// Server represents the API server. It encapsulates all components and
// handles initialization, startup, and graceful shutdown.
type Server struct {
	// Config contains application configuration
	Config *config.AppConfig

	// Db provides database access
	Db *database.Pool

	// Handlers contains all HTTP request handlers
	Handlers *Handlers

	router        chi.Router
	httpServer    *http.Server
	tokens        *auth.TokenService
	authenticator *auth.TokenAuthenticator
	files         *storage.FileStore
	rateLimits    *ratelimit.Store
	resetService  *service.ResetService
}

// NewServer creates a new server instance with all required components
// wired together, ready to start.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{
		Config: cfg,
	}

	if err := s.setupDatabase(); err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := s.setupStorage(); err != nil {
		return nil, fmt.Errorf("failed to set up file storage: %w", err)
	}

	s.setupAuth()

	if err := s.setupServices(); err != nil {
		return nil, fmt.Errorf("failed to set up services: %w", err)
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupDatabase connects to the database and runs migrations so the
// schema is in place before the server accepts requests.
func (s *Server) setupDatabase() error {
	db, err := database.Connect(s.Config)
	if err != nil {
		return err
	}

	s.Db = db

	migrator := migrations.NewMigrator(db)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Development gets a demo account so the API has data out of the box
	if s.Config.App.IsDevelopment() {
		seeder := scripts.NewSeeder(db)
		if err := seeder.SeedDatabase(context.Background()); err != nil {
			return fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return nil
}

// setupStorage prepares the upload directories under the configured
// storage root.
func (s *Server) setupStorage() error {
	files, err := storage.NewFileStore(s.Config.Storage.Root)
	if err != nil {
		return err
	}

	s.files = files
	return nil
}

// setupAuth creates the token service and request authenticator.
func (s *Server) setupAuth() {
	s.tokens = auth.NewTokenService(&s.Config.Token)
	s.authenticator = auth.NewTokenAuthenticator(s.tokens)
}

// setupServices builds repositories, services, and handlers in
// dependency order.
func (s *Server) setupServices() error {
	userRepo := repository.NewUserRepository(s.Db)
	deckRepo := repository.NewDeckRepository(s.Db)
	cardRepo := repository.NewCardRepository(s.Db)

	userService := service.NewUserService(userRepo, deckRepo, cardRepo, s.files, s.tokens)
	deckService := service.NewDeckService(deckRepo, cardRepo, s.files)
	cardService := service.NewCardService(cardRepo, deckRepo, s.files)

	emailService, err := service.NewEmailService(&s.Config.Email)
	if err != nil {
		// The reset flow degrades to logging the link instead of
		// refusing to boot when no mail provider is configured.
		if s.Config.App.IsProduction() {
			return err
		}
		log.Warn().Err(err).Msg("Email delivery not configured, reset links will only be logged")
		s.resetService = service.NewResetService(userRepo, service.NopEmailSender{}, &s.Config.Email)
	} else {
		s.resetService = service.NewResetService(userRepo, emailService, &s.Config.Email)
	}

	s.Handlers = &Handlers{
		AuthHandler: handlers.NewAuthHandler(userService, s.resetService),
		UserHandler: handlers.NewUserHandler(userService),
		DeckHandler: handlers.NewDeckHandler(deckService, s.files),
		CardHandler: handlers.NewCardHandler(cardService, s.files),
	}

	return nil
}

// Start starts the HTTP server and blocks until a shutdown signal or a
// server error. Maintenance tasks run in the background for the life of
// the server.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	s.SetupMaintenanceTasks()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight
// requests before closing the database connection.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	log.Info().Msg("Server stopped gracefully")

	s.Db.Close()
	log.Info().Msg("Database connection closed")

	return nil
}

// SetupMaintenanceTasks starts periodic background cleanup. Expired
// password reset credentials are cleared from accounts on a fixed
// schedule so stale links stop matching even without a confirm attempt.
func (s *Server) SetupMaintenanceTasks() {
	ticker := time.NewTicker(constants.ResetSweepInterval)
	go func() {
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)

			if count, err := s.resetService.ClearExpired(ctx); err != nil {
				log.Error().Err(err).Msg("Failed to clear expired reset credentials")
			} else if count > 0 {
				log.Info().Int64("count", count).Msg("Cleared expired reset credentials")
			}

			cancel()
		}
	}()
}
