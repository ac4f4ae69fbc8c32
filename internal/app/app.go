// Package app wires configuration, services, middleware and routes into a
// runnable HTTP application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"finboard/internal/cache"
	"finboard/internal/config"
	"finboard/internal/dataprocessing"
	"finboard/internal/errors"
	"finboard/internal/infrastructure"
	customMiddleware "finboard/internal/middleware"
	"finboard/internal/services"
	"finboard/internal/storage"
	handlers "finboard/internal/transport/http"
)

const (
	Version = "1.2.0"
	AppName = "FinBoard - Monthly Financial Workbook Dashboard"
)

// Application represents the main application container.
type Application struct {
	Config          *config.Config
	Router          *chi.Mux
	Server          *http.Server
	Logger          *slog.Logger
	WorkbookService *services.WorkbookService
	AuthService     *services.AuthService
	NotesService    *services.NotesService
	Registry        *prometheus.Registry
}

// NewApplication creates a new application instance with dependency injection.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	app := &Application{
		Config:   cfg,
		Logger:   logger,
		Registry: prometheus.NewRegistry(),
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices initializes all application services.
func (a *Application) initializeServices() error {
	store, err := storage.NewS3Store(context.Background(), a.Config.Storage, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize object store: %w", err)
	}

	normalizer := dataprocessing.NewNormalizer(dataprocessing.DefaultRegistry())

	a.WorkbookService = services.NewWorkbookService(store, cache.New(), normalizer, a.Logger)
	a.AuthService = services.NewAuthService(a.Config.Auth, a.Logger)
	a.NotesService = services.NewNotesService(a.Config.Notify, a.Logger)

	return nil
}

// setupRouter configures the HTTP router with all routes.
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// Middleware order: RequestID -> RealIP -> metrics -> logger -> recoverer
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)

	httpMetrics := customMiddleware.NewHTTPMetrics(a.Registry)
	r.Use(httpMetrics.Handler)

	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins:   a.Config.Security.AllowedOrigins,
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			Logger:           a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
		).Handler)
	}

	a.setupAPIRoutes(r)

	healthHandler := handlers.NewHealthHandler(Version)
	r.Get("/healthz", healthHandler.Health)

	r.Handle("/metrics", promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{}))

	a.Router = r
}

// setupAPIRoutes configures API endpoints.
func (a *Application) setupAPIRoutes(r chi.Router) {
	errorHandler := errors.NewErrorHandler(a.Logger, false)

	workbookHandler := handlers.NewWorkbookHandler(a.WorkbookService, a.Logger, errorHandler, a.Config.Server.MaxUploadBytes)
	authHandler := handlers.NewAuthHandler(a.AuthService, a.WorkbookService, a.Logger, errorHandler)
	notesHandler := handlers.NewNotesHandler(a.NotesService, a.Logger, errorHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.Timeout(a.Config.Server.WriteTimeout, a.Logger))

		r.Mount("/auth", authHandler.Routes())

		// reads are open, mutations sit behind the session gate
		r.Get("/workbooks", workbookHandler.ListMonths)
		r.Route("/workbooks/{month}", func(r chi.Router) {
			r.Use(workbookHandler.MonthCtx)
			r.Get("/", workbookHandler.GetMonth)
			r.Get("/kpis", workbookHandler.GetKPIs)
			r.Get("/export", workbookHandler.ExportCSV)
		})
		r.Post("/compare", workbookHandler.Compare)

		r.Group(func(r chi.Router) {
			r.Use(authHandler.RequireAuth)
			r.Post("/workbooks", workbookHandler.Upload)
			r.Mount("/notes", notesHandler.Routes())
		})
	})
}

// createServer creates the HTTP server.
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "Starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "Server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "Application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully stops the application.
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if err := infrastructure.CloseLogFile(); err != nil {
		a.Logger.ErrorContext(ctx, "Error closing log file", slog.String("error", err.Error()))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return nil
}

// Run runs the application until interrupted.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "Received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
