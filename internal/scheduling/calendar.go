// Package scheduling implements the appointment scheduling and
// request-conversion engine
package scheduling

import (
	"fmt"
	"time"

	"pestguard/internal/domain"
)

// dateLayout is the calendar-date form used for slot matching and API input
const dateLayout = "2006-01-02"

// Bookable window: hourly slots from 08:00 through 18:00 inclusive
const (
	slotFirstHour = 8
	slotLastHour  = 18
)

// SlotsPerDay is the number of hourly slots in one AppointmentDay
const SlotsPerDay = slotLastHour - slotFirstHour + 1

// ComputeWeek derives the availability grid for the 7 consecutive days
// beginning at anchor. A slot is occupied when any appointment matches its
// calendar date and time; status is deliberately not considered, so a
// cancelled appointment still blocks its slot.
//
// Pure function: no side effects, total for any anchor and appointment set.
func ComputeWeek(anchor time.Time, appointments []domain.Appointment) []domain.AppointmentDay {
	type slotKey struct {
		date string
		time string
	}
	occupied := make(map[slotKey]domain.Appointment, len(appointments))
	for _, a := range appointments {
		occupied[slotKey{a.Date.Format(dateLayout), a.Time}] = a
	}

	days := make([]domain.AppointmentDay, 0, 7)
	for i := 0; i < 7; i++ {
		date := anchor.AddDate(0, 0, i)
		day := domain.AppointmentDay{
			Date:    date,
			Weekday: date.Weekday().String(),
			Slots:   make([]domain.TimeSlot, 0, SlotsPerDay),
		}
		for hour := slotFirstHour; hour <= slotLastHour; hour++ {
			slot := domain.TimeSlot{
				Time:      fmt.Sprintf("%02d:00", hour),
				Available: true,
			}
			if a, ok := occupied[slotKey{date.Format(dateLayout), slot.Time}]; ok {
				slot.Available = false
				slot.ClientID = a.ClientID
				slot.ClientName = a.ClientName
			}
			day.Slots = append(day.Slots, slot)
		}
		days = append(days, day)
	}
	return days
}

// NextWeek returns the anchor for the following week
func NextWeek(anchor time.Time) time.Time {
	return anchor.AddDate(0, 0, 7)
}

// PrevWeek returns the anchor for the preceding week
func PrevWeek(anchor time.Time) time.Time {
	return anchor.AddDate(0, 0, -7)
}

// StartOfWeek returns the Monday of the week containing t, at midnight in
// t's location. Used as the default calendar anchor.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}
