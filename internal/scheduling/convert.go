package scheduling

import (
	"context"
	"fmt"

	"pestguard/internal/domain"
	"pestguard/internal/domain/notifications"

	"github.com/google/uuid"
)

// Conversion defaults
const (
	defaultDurationMinutes = 120
	fallbackEstimatedCost  = 150
)

// Converter turns pending service requests into scheduled appointments,
// writing through the appointment store and back to the request store.
type Converter struct {
	appointments *AppointmentStore
	requests     *RequestStore
	dispatch     notifications.Dispatcher
}

// NewConverter creates a conversion workflow over the two stores
func NewConverter(appointments *AppointmentStore, requests *RequestStore, dispatch notifications.Dispatcher) *Converter {
	return &Converter{
		appointments: appointments,
		requests:     requests,
		dispatch:     dispatch,
	}
}

// Approve converts the request with the given id into an appointment. Contact
// fields are copied from the request, date and time default to the preferred
// slot, duration to 120 minutes and the cost to the request's estimate (or a
// flat 150 when absent). A fresh client id is minted on every conversion;
// there is no shared client directory, so a repeat client gets a new
// identity each time. Caller-supplied overrides are applied last and win
// over all defaults.
//
// The chosen slot is not re-checked against the calendar, so an approval can
// land on an occupied slot. Two notifications are emitted per successful
// conversion: the store's creation event plus the approval event below.
// An unknown id changes nothing and emits nothing.
func (c *Converter) Approve(ctx context.Context, requestID string, overrides AppointmentUpdate) (domain.Appointment, bool) {
	req, ok := c.requests.Get(requestID)
	if !ok {
		return domain.Appointment{}, false
	}

	draft := domain.Appointment{
		ClientID:      uuid.NewString(),
		ClientName:    req.ClientName,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		ServiceType:   req.ServiceType,
		Date:          req.PreferredDate,
		Time:          req.PreferredTime,
		Duration:      defaultDurationMinutes,
		Status:        domain.AppointmentStatusScheduled,
		Address:       req.Address,
		Notes:         req.SpecialInstructions,
		EstimatedCost: fallbackEstimatedCost,
	}
	if req.EstimatedCost != nil {
		draft.EstimatedCost = *req.EstimatedCost
	}
	overrides.apply(&draft)

	appt := c.appointments.Add(ctx, draft)
	c.requests.markConverted(ctx, requestID)

	c.dispatch.Emit(ctx, notifications.Event{
		Type:     notifications.TypeAppointment,
		Title:    "Request Approved",
		Message:  fmt.Sprintf("%s's request was approved and scheduled for %s at %s", appt.ClientName, appt.Date.Format(dateLayout), appt.Time),
		Priority: notifications.PriorityMedium,
		Metadata: &notifications.Metadata{
			ClientID:   appt.ClientID,
			ClientName: appt.ClientName,
		},
	})
	return appt, true
}
