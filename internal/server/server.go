// Package server is the composition root: it wires repositories, services,
// handlers, and middleware into a chi router and owns the HTTP lifecycle.
//
// Dependency flow, assembled once in New:
//
//	sqlite.DB → AuthService/JobService → AuthHandler/JobHandler → routes
//	          ↘ TokenService → RequireAuth middleware
//
// Handlers never touch the database; services never touch HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/yrb/jobtrack/internal/auth"
	"github.com/yrb/jobtrack/internal/config"
	"github.com/yrb/jobtrack/internal/handler"
	"github.com/yrb/jobtrack/internal/middleware"
	sqliteRepo "github.com/yrb/jobtrack/internal/repository/sqlite"
	"github.com/yrb/jobtrack/internal/service"
)

// Server holds the router and the resources it owns. The database
// connection belongs to the server and is closed during shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New builds the full dependency graph from config.
//
// NewTokenService rejects an unusable secret here, at startup — the process
// refuses to come up rather than limping along unable to issue or verify
// tokens.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly so end-to-end tests can drive the
// server through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources outside of Start's own shutdown
// path (tests use this).
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures middleware and all route handlers.
//
// Route map:
//
//	POST   /auth/register          register, returns token
//	POST   /auth/login             login, returns token
//	GET    /auth/github/login      redirect to GitHub (when configured)
//	GET    /auth/github/callback   complete GitHub sign-in
//	GET    /auth/me            *   current user profile
//	GET    /jobs               *   list caller's jobs
//	POST   /jobs               *   create job
//	GET    /jobs/{id}          *   get job
//	PATCH  /jobs/{id}          *   partial update
//	DELETE /jobs/{id}          *   delete job
//	GET    /healthz                liveness probe
//
// * = behind RequireAuth. The /jobs subtree mounts the middleware once;
// there is no way to register a jobs route that skips it.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	authHandler := handler.NewAuthHandler(authService, github, s.logger)

	jobService := service.NewJobService(s.db.Jobs(), s.logger)
	jobHandler := handler.NewJobHandler(jobService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	s.router.Route("/jobs", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/", jobHandler.HandleList)
		r.Post("/", jobHandler.HandleCreate)
		r.Get("/{id}", jobHandler.HandleGet)
		r.Patch("/{id}", jobHandler.HandleUpdate)
		r.Delete("/{id}", jobHandler.HandleDelete)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// drain, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
