// Package server wires the router, middleware, and all route definitions.
//
// This is the composition root: the full dependency chain
//
//	sqlite.DB → services → handlers → routes
//
// is assembled in New, so main.go stays minimal and every other package
// receives its dependencies instead of constructing them.
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
	"github.com/go-chi/httprate"

	"github.com/sakif/code-editor/internal/ai"
	"github.com/sakif/code-editor/internal/auth"
	"github.com/sakif/code-editor/internal/config"
	"github.com/sakif/code-editor/internal/executor"
	"github.com/sakif/code-editor/internal/handler"
	"github.com/sakif/code-editor/internal/middleware"
	sqliteRepo "github.com/sakif/code-editor/internal/repository/sqlite"
	"github.com/sakif/code-editor/internal/service"
)

// Rate limits on the expensive endpoints, per client IP.
const (
	aiRateLimit      = 15
	aiRateWindow     = 15 * time.Minute
	executeRateLimit = 10
	executeRateWin   = time.Minute
)

// Server owns the router, the database connection, and the HTTP lifecycle.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full server. exec is the configured execution backend;
// gateway is the AI client. Both are constructed in main so the choice of
// backend stays out of this package.
func New(cfg *config.Config, logger *slog.Logger, exec executor.Executor, gateway ai.Gateway) (*Server, error) {
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

	if err := s.setupRoutes(exec, gateway); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, builds the service and handler layers,
// and registers every route.
//
// Middleware order matters: RequestID first so every later stage (logging,
// recovery) can reference it.
func (s *Server) setupRoutes(exec executor.Executor, gateway ai.Gateway) error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	} else {
		s.logger.Info("GitHub OAuth not configured, /auth/github routes disabled")
	}

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db, s.db, s.logger)
	aiService := service.NewAIService(gateway, s.db, s.logger)
	execService := service.NewExecutionService(exec, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	aiHandler := handler.NewAIHandler(aiService, s.logger)
	executeHandler := handler.NewExecuteHandler(execService, s.logger)

	requireAuth := auth.RequireAuth(tokens)

	// OAuth flow lives outside /api: these routes are browser redirects, not
	// JSON endpoints.
	s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
	s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":{"status":"ok"}}`))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.HandleRegister)
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/logout", authHandler.HandleLogout)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/profile", authHandler.HandleProfile)
				r.Put("/profile", authHandler.HandleUpdateProfile)
			})
		})

		r.Route("/codes", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", snippetHandler.HandleList)
			r.Post("/", snippetHandler.HandleCreate)
			r.Get("/{id}", snippetHandler.HandleGet)
			r.Put("/{id}", snippetHandler.HandleUpdate)
			r.Delete("/{id}", snippetHandler.HandleDelete)
			r.Get("/{id}/history", snippetHandler.HandleHistory)
		})

		r.Route("/ai", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(httprate.LimitByIP(aiRateLimit, aiRateWindow))
			r.Post("/analyze", aiHandler.HandleAnalyze)
			r.Post("/explain", aiHandler.HandleExplain)
			r.Post("/optimize", aiHandler.HandleOptimize)
			r.Post("/document", aiHandler.HandleDocument)
			r.Post("/convert", aiHandler.HandleConvert)
			r.Post("/fix", aiHandler.HandleFixBugs)
		})

		r.Route("/compile", func(r chi.Router) {
			// Language listing is public; execution is authenticated and
			// rate limited.
			r.Get("/languages", executeHandler.HandleLanguages)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Use(httprate.LimitByIP(executeRateLimit, executeRateWin))
				r.Post("/execute", executeHandler.HandleExecute)
			})
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database (flushes the WAL, releases the file lock).
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // AI retries can run long
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

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
