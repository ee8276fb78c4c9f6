package scheduling

import (
	"context"
	"testing"

	"pestguard/internal/domain"
	"pestguard/internal/domain/notifications"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.appointments.Add(ctx, domain.Appointment{
		ClientID:    "client-1",
		ClientName:  "Lisa Brown",
		ServiceType: "termite inspection",
		Date:        mustDate(t, "2025-07-02"),
		Time:        "09:00",
		Duration:    60,
		Status:      domain.AppointmentStatusScheduled,
	})

	assert.NotEmpty(t, appt.ID)
	assert.True(t, appt.CreatedAt.Equal(testClock))
	assert.True(t, appt.UpdatedAt.Equal(testClock))
	require.Len(t, f.appointments.All(), 1)

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notifications.TypeAppointment, events[0].Type)
	assert.Equal(t, "New Appointment Scheduled", events[0].Title)
	assert.Equal(t, notifications.PriorityMedium, events[0].Priority)
	require.NotNil(t, events[0].Metadata)
	assert.Equal(t, "Lisa Brown", events[0].Metadata.ClientName)
	assert.Equal(t, "client-1", events[0].Metadata.ClientID)
}

func TestAppointmentAdd_NoValidation(t *testing.T) {
	f := newFixture(t)

	// Blank fields and odd time strings are stored as-is; validation is the
	// presentation layer's job.
	appt := f.appointments.Add(context.Background(), domain.Appointment{Time: "25:99"})

	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, "25:99", appt.Time)
	assert.Empty(t, appt.ClientName)
}

func TestAppointmentUpdate_MergesPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.appointments.Add(ctx, domain.Appointment{
		ClientName:  "Lisa Brown",
		ServiceType: "termite inspection",
		Date:        mustDate(t, "2025-07-02"),
		Time:        "09:00",
		Status:      domain.AppointmentStatusScheduled,
	})
	f.events.Reset()

	updated, ok := f.appointments.Update(ctx, appt.ID, AppointmentUpdate{
		Time:  strPtr("11:00"),
		Notes: strPtr("gate code 4411"),
	})

	require.True(t, ok)
	assert.Equal(t, "11:00", updated.Time)
	assert.Equal(t, "gate code 4411", updated.Notes)
	// Untouched fields survive the merge
	assert.Equal(t, "Lisa Brown", updated.ClientName)
	assert.Equal(t, "termite inspection", updated.ServiceType)
	// No status change, no notification
	assert.Empty(t, f.events.Events())
}

func TestAppointmentUpdate_StatusNotification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.appointments.Add(ctx, domain.Appointment{
		ClientName: "Lisa Brown",
		Status:     domain.AppointmentStatusScheduled,
	})
	f.events.Reset()

	_, ok := f.appointments.Update(ctx, appt.ID, AppointmentUpdate{
		Status: strPtr(domain.AppointmentStatusConfirmed),
	})
	require.True(t, ok)

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notifications.PriorityMedium, events[0].Priority)
	assert.Contains(t, events[0].Message, "Lisa Brown")
	assert.Contains(t, events[0].Message, "Confirmed")
}

func TestAppointmentCancel_HighPriority(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt := f.appointments.Add(ctx, domain.Appointment{
		ClientName: "Lisa Brown",
		Status:     domain.AppointmentStatusScheduled,
	})
	f.events.Reset()

	cancelled, ok := f.appointments.Cancel(ctx, appt.ID, "client moved away")

	require.True(t, ok)
	assert.Equal(t, domain.AppointmentStatusCancelled, cancelled.Status)

	events := f.events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notifications.PriorityHigh, events[0].Priority)
}

func TestAppointmentUpdate_UnknownID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.appointments.Add(ctx, domain.Appointment{ClientName: "Lisa Brown"})
	f.events.Reset()

	_, ok := f.appointments.Update(ctx, "no-such-id", AppointmentUpdate{
		Status: strPtr(domain.AppointmentStatusCancelled),
	})

	assert.False(t, ok)
	assert.Len(t, f.appointments.All(), 1)
	assert.Empty(t, f.events.Events(), "no-op mutation emits nothing")
}

func TestAppointmentToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// testClock is 2025-07-01
	f.appointments.Add(ctx, domain.Appointment{ClientName: "late", Date: mustDate(t, "2025-07-01"), Time: "16:00"})
	f.appointments.Add(ctx, domain.Appointment{ClientName: "early", Date: mustDate(t, "2025-07-01"), Time: "08:00"})
	f.appointments.Add(ctx, domain.Appointment{ClientName: "tomorrow", Date: mustDate(t, "2025-07-02"), Time: "09:00"})

	today := f.appointments.Today()

	require.Len(t, today, 2)
	assert.Equal(t, "early", today[0].ClientName)
	assert.Equal(t, "late", today[1].ClientName)
}

func TestAppointmentUpcoming(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	add := func(name, date, slot, status string) {
		f.appointments.Add(ctx, domain.Appointment{
			ClientName: name,
			Date:       mustDate(t, date),
			Time:       slot,
			Status:     status,
		})
	}

	add("past", "2025-06-28", "09:00", domain.AppointmentStatusScheduled)
	add("cancelled", "2025-07-03", "09:00", domain.AppointmentStatusCancelled)
	add("completed", "2025-07-03", "10:00", domain.AppointmentStatusCompleted)
	add("second", "2025-07-02", "14:00", domain.AppointmentStatusConfirmed)
	add("first", "2025-07-01", "15:00", domain.AppointmentStatusScheduled)
	add("third", "2025-07-04", "08:00", domain.AppointmentStatusScheduled)

	upcoming := f.appointments.Upcoming()

	require.Len(t, upcoming, 3)
	assert.Equal(t, "first", upcoming[0].ClientName)
	assert.Equal(t, "second", upcoming[1].ClientName)
	assert.Equal(t, "third", upcoming[2].ClientName)
}

func TestAppointmentUpcoming_CapsAtTen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 14; i++ {
		f.appointments.Add(ctx, domain.Appointment{
			ClientName: "bulk",
			Date:       mustDate(t, "2025-07-10"),
			Time:       "09:00",
			Status:     domain.AppointmentStatusScheduled,
		})
	}

	assert.Len(t, f.appointments.Upcoming(), 10)
}

func TestAppointmentPersistenceRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cost := 275.0
	original := f.appointments.Add(ctx, domain.Appointment{
		ClientID:      "client-1",
		ClientName:    "Lisa Brown",
		ClientEmail:   "lisa@example.com",
		ServiceType:   "rodent control",
		Date:          mustDate(t, "2025-07-02"),
		Time:          "09:00",
		Duration:      90,
		Status:        domain.AppointmentStatusScheduled,
		EstimatedCost: cost,
	})

	// A fresh store over the same key-value data sees the same collection
	reloaded := NewAppointmentStore(f.kv, f.events, zerolog.Nop())
	reloaded.Load(ctx)

	items := reloaded.All()
	require.Len(t, items, 1)
	got := items[0]
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.ClientName, got.ClientName)
	assert.Equal(t, original.EstimatedCost, got.EstimatedCost)
	assert.True(t, got.Date.Equal(original.Date))
	assert.True(t, got.CreatedAt.Equal(original.CreatedAt))
	assert.True(t, got.UpdatedAt.Equal(original.UpdatedAt))
}

func TestAppointmentLoad_CorruptDataStartsEmpty(t *testing.T) {
	kv := newMemKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "appointments", "{not json"))

	store := NewAppointmentStore(kv, &notifications.Recorder{}, zerolog.Nop())
	store.Load(ctx)

	assert.Empty(t, store.All())
}
