// Package api smbreplay REST API
//
// @title           smbreplay REST API
// @version         1.0.0
// @description     Convert Super Monkey Ball replays and keep a library of them.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/swaggo/swag"
)

const (
	shutdownTimeout       = 5 * time.Second
	metricsUpdateInterval = 30 * time.Second
)

// Routes builds the router with every endpoint and middleware attached
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.metrics.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", s.metrics.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Post("/convert", s.metrics.InstrumentHandler("POST", "/api/v1/convert", s.handleConvert))

		r.Post("/replays", s.metrics.InstrumentHandler("POST", "/api/v1/replays", s.handleImport))
		r.Get("/replays", s.metrics.InstrumentHandler("GET", "/api/v1/replays", s.handleList))
		r.Get("/replays/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/replays/{id}", s.handleExport))
		r.Delete("/replays/{id}", s.metrics.InstrumentHandler("DELETE", "/api/v1/replays/{id}", s.handleDelete))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/doc.json", s.handleSwagger)

	return r
}

func (s *Server) handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	if err != nil {
		s.logger.Error("failed to render swagger doc", "error", err)
		sendError(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Bind, strconv.Itoa(s.config.Port))
}

// Start serves the API until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", s.config.Port)

	srv := &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	var updater sync.WaitGroup
	updater.Add(1)
	go func() {
		defer updater.Done()
		s.startMetricsUpdater(ctx)
	}()
	// the library may be closed as soon as Start returns
	defer updater.Wait()
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting replay API server", "addr", srv.Addr,
			"auth", s.config.APIKey != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down replay API server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// startMetricsUpdater periodically refreshes the library gauge
func (s *Server) startMetricsUpdater(ctx context.Context) {
	s.refreshLibraryGauge()

	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshLibraryGauge()
		}
	}
}
