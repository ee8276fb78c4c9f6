package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	r := s.router

	// Health check endpoint
	r.Get("/health", s.handleHealth)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Get("/api/services", s.handleListServices)
		r.Post("/api/requests", s.handleSubmitRequest)
		r.Post("/api/login", s.handleLogin)
		r.Post("/api/logout", s.handleLogout)

		// Public appointment tracking
		r.Get("/tracking/{id}", s.handleTrackingStatus)
		r.Get("/tracking/{id}/qr", s.handleTrackingQR)
	})

	// Admin dashboard API
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)

		// Appointments
		r.Get("/appointments", s.handleListAppointments)
		r.Post("/appointments", s.handleCreateAppointment)
		r.Patch("/appointments/{id}", s.handleUpdateAppointment)
		r.Post("/appointments/{id}/cancel", s.handleCancelAppointment)
		r.Get("/appointments/today", s.handleTodayAppointments)
		r.Get("/appointments/upcoming", s.handleUpcomingAppointments)

		// Weekly availability calendar
		r.Get("/calendar", s.handleCalendarWeek)

		// Service requests
		r.Get("/requests", s.handleListRequests)
		r.Post("/requests/{id}/approve", s.handleApproveRequest)
		r.Post("/requests/{id}/decline", s.handleDeclineRequest)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy","timestamp":"` + time.Now().Format(time.RFC3339) + `"}`))
}
