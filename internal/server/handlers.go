package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"pestguard/internal/domain"

	qrcode "github.com/skip2/go-qrcode"
)

// dateLayout is the calendar-date form accepted by the API
const dateLayout = "2006-01-02"

// respondJSON writes a JSON response with the given status
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// handleListServices returns the service catalog for the marketing pages
func (s *Server) handleListServices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.services)
}

// requestPayload is the intake form body
type requestPayload struct {
	ClientName          string   `json:"clientName"`
	ClientEmail         string   `json:"clientEmail"`
	ClientPhone         string   `json:"clientPhone"`
	ServiceType         string   `json:"serviceType"`
	PreferredDate       string   `json:"preferredDate"`
	PreferredTime       string   `json:"preferredTime"`
	AlternateDate       string   `json:"alternateDate"`
	AlternateTime       string   `json:"alternateTime"`
	Address             string   `json:"address"`
	PropertySize        string   `json:"propertySize"`
	AdditionalServices  []string `json:"additionalServices"`
	SpecialInstructions string   `json:"specialInstructions"`
	Urgency             string   `json:"urgency"`
	EstimatedCost       *float64 `json:"estimatedCost"`
}

// handleSubmitRequest accepts a service request from the public site
func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	var payload requestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	preferred, err := time.Parse(dateLayout, payload.PreferredDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid preferredDate, expected YYYY-MM-DD")
		return
	}

	req := domain.AppointmentRequest{
		ClientName:          payload.ClientName,
		ClientEmail:         payload.ClientEmail,
		ClientPhone:         payload.ClientPhone,
		ServiceType:         payload.ServiceType,
		PreferredDate:       preferred,
		PreferredTime:       payload.PreferredTime,
		AlternateTime:       payload.AlternateTime,
		Address:             payload.Address,
		PropertySize:        payload.PropertySize,
		AdditionalServices:  payload.AdditionalServices,
		SpecialInstructions: payload.SpecialInstructions,
		Urgency:             payload.Urgency,
		EstimatedCost:       payload.EstimatedCost,
	}
	if req.Urgency == "" {
		req.Urgency = domain.UrgencyStandard
	}
	if payload.AlternateDate != "" {
		if alternate, err := time.Parse(dateLayout, payload.AlternateDate); err == nil {
			req.AlternateDate = &alternate
		}
	}

	created := s.requests.Add(r.Context(), req)
	respondJSON(w, http.StatusCreated, created)
}

// loginPayload is the operator login body
type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin authenticates the dashboard operator and issues a JWT
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.Email != s.config.Admin.Email || !checkPasswordHash(payload.Password, s.config.Admin.PasswordHash) {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.generateToken(payload.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	maxAge := s.config.JWT.ExpirationHours * 3600
	s.setAuthCookie(w, token, maxAge)
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// handleLogout clears the auth cookie
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// handleTrackingStatus returns the public view of an appointment
func (s *Server) handleTrackingStatus(w http.ResponseWriter, r *http.Request) {
	id := getURLParam(r, "id")
	appt, ok := s.appointments.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "appointment not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"id":          appt.ID,
		"serviceType": appt.ServiceType,
		"date":        appt.Date.Format(dateLayout),
		"time":        appt.Time,
		"status":      appt.Status,
		"statusLabel": domain.AppointmentStatusLabel(appt.Status),
		"updatedAt":   appt.UpdatedAt,
	})
}

// handleTrackingQR returns a QR code image pointing at the tracking page
func (s *Server) handleTrackingQR(w http.ResponseWriter, r *http.Request) {
	id := getURLParam(r, "id")
	if _, ok := s.appointments.Get(id); !ok {
		respondError(w, http.StatusNotFound, "appointment not found")
		return
	}

	url := fmt.Sprintf("https://%s/tracking/%s", r.Host, id)
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
