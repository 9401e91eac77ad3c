// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/ansuz/internal/api"
	"github.com/starford/ansuz/internal/catalog"
	"github.com/starford/ansuz/internal/librarian"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/session"
	"github.com/starford/ansuz/internal/sse"
	"github.com/starford/ansuz/internal/store"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("seed_path", cfg.Catalog.SeedPath),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("log_level", cfg.App.LogLevel.String()))

	// Initialize book store. An empty SQLite path selects the in-memory store.
	var bookStore store.Store
	if cfg.SQLite.Path != "" {
		s, err := store.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return fmt.Errorf("init store: %w", err)
		}
		bookStore = s
	} else {
		bookStore = store.NewMemory()
	}
	defer bookStore.Close()

	// Load and sync the seed catalog, if configured.
	if cfg.Catalog.SeedPath != "" {
		books, err := store.LoadSeed(cfg.Catalog.SeedPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Info("No seed catalog found", slog.String("path", cfg.Catalog.SeedPath))
		case err != nil:
			logger.Warn("Seed catalog load failed", slog.String("error", err.Error()))
		default:
			if err := store.SyncSeed(ctx, bookStore, books, logger); err != nil {
				logger.Warn("Initial seed sync failed", slog.String("error", err.Error()))
			}
		}
	}

	// AI gateway. Missing API key falls back to the disabled gateway.
	gateway := app.gateway
	if gateway == nil {
		if cfg.AI.APIKey == "" {
			logger.Info("AI gateway disabled, no API key configured")
			gateway = librarian.Disabled{}
		} else {
			g, err := librarian.NewGemini(ctx, cfg.AI.APIKey, cfg.AI.Model, logger)
			if err != nil {
				return fmt.Errorf("init AI gateway: %w", err)
			}
			gateway = g
		}
	}

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)

	// Build catalog service.
	svc := catalog.NewService(bookStore, gateway, func(kind string, book models.Book) {
		broker.PublishBookEvent(kind, book.ID, book.Title)
	})

	// MCP mode serves the catalog over stdio instead of HTTP.
	if app.mcpMode {
		logger.Info("Starting MCP server on stdio")
		return mcpserver.New(svc).ServeStdio()
	}

	sessions := session.NewManager(cfg.Auth.Password)
	apiRouter := api.NewRouter(svc, sessions, cfg.Auth.AuthEnabled(), broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the seed catalog for edits and re-sync on change.
	if cfg.Catalog.SeedPath != "" {
		g.Go(func() error {
			err := store.WatchSeed(gCtx, bookStore, cfg.Catalog.SeedPath, logger, func() {
				broker.Publish(sse.Event{Type: "catalog.updated", Data: map[string]string{"source": "seed"}})
			})
			if err != nil {
				// Live reload is best effort; the server keeps serving.
				logger.Warn("Seed watcher stopped", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")
		broker.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
