// Package server provides HTTP server setup and handlers
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pestguard/internal/config"
	"pestguard/internal/domain"
	"pestguard/internal/scheduling"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Server represents the HTTP server
type Server struct {
	config       *config.Config
	logger       zerolog.Logger
	appointments *scheduling.AppointmentStore
	requests     *scheduling.RequestStore
	converter    *scheduling.Converter
	services     []domain.Service
	router       *chi.Mux
	http         *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, logger zerolog.Logger, appointments *scheduling.AppointmentStore, requests *scheduling.RequestStore, converter *scheduling.Converter) *Server {
	s := &Server{
		config:       cfg,
		logger:       logger,
		appointments: appointments,
		requests:     requests,
		converter:    converter,
		services:     serviceCatalog(),
		router:       chi.NewRouter(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	s.http = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Run starts the server and handles graceful shutdown
func (s *Server) Run() error {
	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.config.Address()).Bool("debug", s.config.Debug).Msg("server starting")
		serverErrors <- s.http.ListenAndServe()
	}()

	// Channel to listen for OS signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")

		// Give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			if err := s.http.Close(); err != nil {
				return fmt.Errorf("failed to close server: %w", err)
			}
		}

		s.logger.Info().Msg("server shutdown complete")
	}

	return nil
}

// setupMiddleware configures global middleware
func (s *Server) setupMiddleware() {
	// Real IP detection (important for logging behind proxies)
	s.router.Use(middleware.RealIP)

	// Request ID for tracing
	s.router.Use(middleware.RequestID)

	// Structured request logging
	s.router.Use(s.requestLogger)

	// Panic recovery
	s.router.Use(middleware.Recoverer)

	// Security headers
	s.router.Use(s.securityHeaders)

	// Response compression (level 5 is a good balance)
	s.router.Use(middleware.Compress(5))

	// Timeout for requests
	s.router.Use(middleware.Timeout(30 * time.Second))
}

// securityHeaders adds security-related headers to all responses
func (s *Server) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Prevent MIME type sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		// Control referrer information
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request with its status and duration
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

// GetRouter returns the chi router (useful for testing)
func (s *Server) GetRouter() *chi.Mux {
	return s.router
}

// serviceCatalog lists the treatments shown on the marketing pages. Static
// mock data; content editing is out of scope.
func serviceCatalog() []domain.Service {
	return []domain.Service{
		{ID: "general-pest", Name: "General Pest Control", Description: "Quarterly interior and exterior treatment for common household pests", BasePrice: 150, EstimatedHours: 1.5},
		{ID: "termite", Name: "Termite Inspection & Treatment", Description: "Full-structure termite inspection with targeted treatment plan", BasePrice: 350, EstimatedHours: 3},
		{ID: "rodent", Name: "Rodent Control", Description: "Entry-point sealing, trapping and follow-up monitoring", BasePrice: 275, EstimatedHours: 2},
		{ID: "mosquito", Name: "Mosquito Treatment", Description: "Seasonal yard barrier treatment", BasePrice: 125, EstimatedHours: 1},
		{ID: "wasp", Name: "Wasp & Hornet Removal", Description: "Nest removal and deterrent application", BasePrice: 175, EstimatedHours: 1},
		{ID: "bedbug", Name: "Bed Bug Treatment", Description: "Heat and chemical treatment with follow-up inspection", BasePrice: 450, EstimatedHours: 4},
	}
}
