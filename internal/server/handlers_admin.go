package server

import (
	"encoding/json"
	"net/http"
	"time"

	"pestguard/internal/domain"
	"pestguard/internal/scheduling"

	"github.com/go-chi/chi/v5"
)

// getURLParam is a helper to get URL parameters
func getURLParam(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// appointmentPayload is the create-appointment body
type appointmentPayload struct {
	ClientID      string  `json:"clientId"`
	ClientName    string  `json:"clientName"`
	ClientEmail   string  `json:"clientEmail"`
	ClientPhone   string  `json:"clientPhone"`
	ServiceType   string  `json:"serviceType"`
	Date          string  `json:"date"`
	Time          string  `json:"time"`
	Duration      int     `json:"duration"`
	Status        string  `json:"status"`
	Address       string  `json:"address"`
	Notes         string  `json:"notes"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// appointmentPatch is a partial appointment body; absent fields stay untouched
type appointmentPatch struct {
	ClientID      *string  `json:"clientId"`
	ClientName    *string  `json:"clientName"`
	ClientEmail   *string  `json:"clientEmail"`
	ClientPhone   *string  `json:"clientPhone"`
	ServiceType   *string  `json:"serviceType"`
	Date          *string  `json:"date"`
	Time          *string  `json:"time"`
	Duration      *int     `json:"duration"`
	Status        *string  `json:"status"`
	Address       *string  `json:"address"`
	Notes         *string  `json:"notes"`
	EstimatedCost *float64 `json:"estimatedCost"`
	ReminderSent  *bool    `json:"reminderSent"`
}

func (p appointmentPatch) toUpdate() (scheduling.AppointmentUpdate, error) {
	update := scheduling.AppointmentUpdate{
		ClientID:      p.ClientID,
		ClientName:    p.ClientName,
		ClientEmail:   p.ClientEmail,
		ClientPhone:   p.ClientPhone,
		ServiceType:   p.ServiceType,
		Time:          p.Time,
		Duration:      p.Duration,
		Status:        p.Status,
		Address:       p.Address,
		Notes:         p.Notes,
		EstimatedCost: p.EstimatedCost,
		ReminderSent:  p.ReminderSent,
	}
	if p.Date != nil {
		date, err := time.Parse(dateLayout, *p.Date)
		if err != nil {
			return scheduling.AppointmentUpdate{}, err
		}
		update.Date = &date
	}
	return update, nil
}

// handleListAppointments returns the full appointment collection
func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.appointments.All())
}

// handleCreateAppointment books an appointment directly (walk-in / phone)
func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var payload appointmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	date, err := time.Parse(dateLayout, payload.Date)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	appt := domain.Appointment{
		ClientID:      payload.ClientID,
		ClientName:    payload.ClientName,
		ClientEmail:   payload.ClientEmail,
		ClientPhone:   payload.ClientPhone,
		ServiceType:   payload.ServiceType,
		Date:          date,
		Time:          payload.Time,
		Duration:      payload.Duration,
		Status:        payload.Status,
		Address:       payload.Address,
		Notes:         payload.Notes,
		EstimatedCost: payload.EstimatedCost,
	}
	if appt.Status == "" {
		appt.Status = domain.AppointmentStatusScheduled
	}

	created := s.appointments.Add(r.Context(), appt)
	respondJSON(w, http.StatusCreated, created)
}

// handleUpdateAppointment merges partial fields onto an appointment
func (s *Server) handleUpdateAppointment(w http.ResponseWriter, r *http.Request) {
	var patch appointmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update, err := patch.toUpdate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	updated, ok := s.appointments.Update(r.Context(), getURLParam(r, "id"), update)
	if !ok {
		respondError(w, http.StatusNotFound, "appointment not found")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// handleCancelAppointment cancels an appointment
func (s *Server) handleCancelAppointment(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reason string `json:"reason"`
	}
	// Body is optional
	json.NewDecoder(r.Body).Decode(&payload)

	cancelled, ok := s.appointments.Cancel(r.Context(), getURLParam(r, "id"), payload.Reason)
	if !ok {
		respondError(w, http.StatusNotFound, "appointment not found")
		return
	}
	respondJSON(w, http.StatusOK, cancelled)
}

// handleTodayAppointments returns today's schedule for the dashboard
func (s *Server) handleTodayAppointments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.appointments.Today())
}

// handleUpcomingAppointments returns the next appointments for the dashboard
func (s *Server) handleUpcomingAppointments(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.appointments.Upcoming())
}

// handleCalendarWeek returns the 7-day availability grid. The anchor query
// parameter selects the week; it defaults to the current week's Monday.
func (s *Server) handleCalendarWeek(w http.ResponseWriter, r *http.Request) {
	anchor := scheduling.StartOfWeek(time.Now())
	if anchorStr := r.URL.Query().Get("anchor"); anchorStr != "" {
		parsed, err := time.Parse(dateLayout, anchorStr)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid anchor, expected YYYY-MM-DD")
			return
		}
		anchor = parsed
	}

	week := scheduling.ComputeWeek(anchor, s.appointments.All())
	respondJSON(w, http.StatusOK, week)
}

// handleListRequests returns service requests, optionally filtered by status
func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	requests := s.requests.All()
	if status := r.URL.Query().Get("status"); status != "" {
		filtered := make([]domain.AppointmentRequest, 0, len(requests))
		for _, req := range requests {
			if req.Status == status {
				filtered = append(filtered, req)
			}
		}
		requests = filtered
	}
	respondJSON(w, http.StatusOK, requests)
}

// handleApproveRequest converts a request into an appointment. The optional
// body carries overrides that win over the conversion defaults.
func (s *Server) handleApproveRequest(w http.ResponseWriter, r *http.Request) {
	var patch appointmentPatch
	// Body is optional
	json.NewDecoder(r.Body).Decode(&patch)

	overrides, err := patch.toUpdate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	appt, ok := s.converter.Approve(r.Context(), getURLParam(r, "id"), overrides)
	if !ok {
		respondError(w, http.StatusNotFound, "request not found")
		return
	}
	respondJSON(w, http.StatusOK, appt)
}

// handleDeclineRequest declines a pending request
func (s *Server) handleDeclineRequest(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Reason string `json:"reason"`
	}
	// Body is optional
	json.NewDecoder(r.Body).Decode(&payload)

	declined, ok := s.requests.Decline(r.Context(), getURLParam(r, "id"), payload.Reason)
	if !ok {
		respondError(w, http.StatusNotFound, "request not found")
		return
	}
	respondJSON(w, http.StatusOK, declined)
}
