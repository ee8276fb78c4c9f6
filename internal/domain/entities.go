// Package domain defines core business entities
package domain

import (
	"time"
)

// Appointment represents a confirmed service visit on the calendar
type Appointment struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	ClientEmail   string    `json:"clientEmail,omitempty"`
	ClientPhone   string    `json:"clientPhone,omitempty"`
	ServiceType   string    `json:"serviceType"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`     // slot start, "HH:00"
	Duration      int       `json:"duration"` // minutes
	Status        string    `json:"status"`   // scheduled, confirmed, in_progress, completed, cancelled, no_show
	Address       string    `json:"address,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	EstimatedCost float64   `json:"estimatedCost"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	ReminderSent  bool      `json:"reminderSent,omitempty"`
}

// AppointmentRequest represents an inbound service request prior to scheduling
type AppointmentRequest struct {
	ID                  string     `json:"id"`
	ClientName          string     `json:"clientName"`
	ClientEmail         string     `json:"clientEmail,omitempty"`
	ClientPhone         string     `json:"clientPhone,omitempty"`
	ServiceType         string     `json:"serviceType"`
	PreferredDate       time.Time  `json:"preferredDate"`
	PreferredTime       string     `json:"preferredTime"`
	AlternateDate       *time.Time `json:"alternateDate,omitempty"`
	AlternateTime       string     `json:"alternateTime,omitempty"`
	Address             string     `json:"address,omitempty"`
	PropertySize        string     `json:"propertySize,omitempty"`
	AdditionalServices  []string   `json:"additionalServices,omitempty"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
	Urgency             string     `json:"urgency"` // standard, urgent, flexible
	Status              string     `json:"status"`  // pending, approved, declined, converted
	SubmittedAt         time.Time  `json:"submittedAt"`
	EstimatedCost       *float64   `json:"estimatedCost,omitempty"`
}

// TimeSlot is one bookable hourly window within a day. Derived, never persisted.
type TimeSlot struct {
	Time       string `json:"time"`
	Available  bool   `json:"available"`
	ClientID   string `json:"clientId,omitempty"`
	ClientName string `json:"clientName,omitempty"`
}

// AppointmentDay is one column of the weekly availability grid
type AppointmentDay struct {
	Date    time.Time  `json:"date"`
	Weekday string     `json:"weekday"`
	Slots   []TimeSlot `json:"slots"`
}

// Service represents a treatment offered by the company
type Service struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	BasePrice      float64 `json:"basePrice"`
	EstimatedHours float64 `json:"estimatedHours"`
}

// Status constants
const (
	// Appointment statuses. No transition graph is enforced; any status may
	// follow any other.
	AppointmentStatusScheduled  = "scheduled"
	AppointmentStatusConfirmed  = "confirmed"
	AppointmentStatusInProgress = "in_progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
	AppointmentStatusNoShow     = "no_show"

	// Request statuses. "approved" exists for completeness but conversion
	// moves a request straight from pending to converted.
	RequestStatusPending   = "pending"
	RequestStatusApproved  = "approved"
	RequestStatusDeclined  = "declined"
	RequestStatusConverted = "converted"

	// Request urgency
	UrgencyStandard = "standard"
	UrgencyUrgent   = "urgent"
	UrgencyFlexible = "flexible"
)

// AppointmentStatusLabel returns a human-readable label for an appointment status
func AppointmentStatusLabel(status string) string {
	labels := map[string]string{
		AppointmentStatusScheduled:  "Scheduled",
		AppointmentStatusConfirmed:  "Confirmed",
		AppointmentStatusInProgress: "In Progress",
		AppointmentStatusCompleted:  "Completed",
		AppointmentStatusCancelled:  "Cancelled",
		AppointmentStatusNoShow:     "No Show",
	}
	if label, ok := labels[status]; ok {
		return label
	}
	return status
}
