package scheduling

import (
	"testing"
	"time"

	"pestguard/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeWeek_Shape(t *testing.T) {
	anchor := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	week := ComputeWeek(anchor, nil)

	require.Len(t, week, 7)
	for i, day := range week {
		assert.True(t, day.Date.Equal(anchor.AddDate(0, 0, i)))
		assert.Equal(t, day.Date.Weekday().String(), day.Weekday)
		require.Len(t, day.Slots, SlotsPerDay)
		assert.Equal(t, "08:00", day.Slots[0].Time)
		assert.Equal(t, "18:00", day.Slots[len(day.Slots)-1].Time)
		for _, slot := range day.Slots {
			assert.True(t, slot.Available)
			assert.Empty(t, slot.ClientName)
		}
	}
}

func TestComputeWeek_OccupiedSlot(t *testing.T) {
	anchor := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	appts := []domain.Appointment{
		{
			ID:         "a1",
			ClientID:   "c1",
			ClientName: "Lisa Brown",
			Date:       time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC),
			Time:       "09:00",
			Status:     domain.AppointmentStatusScheduled,
		},
	}

	week := ComputeWeek(anchor, appts)

	// 2025-07-02 is day index 2, 09:00 is slot index 1
	slot := week[2].Slots[1]
	assert.False(t, slot.Available)
	assert.Equal(t, "c1", slot.ClientID)
	assert.Equal(t, "Lisa Brown", slot.ClientName)

	// Every other slot stays open
	open := 0
	for _, day := range week {
		for _, s := range day.Slots {
			if s.Available {
				open++
			}
		}
	}
	assert.Equal(t, 7*SlotsPerDay-1, open)
}

func TestComputeWeek_CancelledStillOccupies(t *testing.T) {
	anchor := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	appts := []domain.Appointment{
		{
			ID:         "a1",
			ClientName: "Sam Reed",
			Date:       time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
			Time:       "08:00",
			Status:     domain.AppointmentStatusCancelled,
		},
	}

	week := ComputeWeek(anchor, appts)

	slot := week[0].Slots[0]
	assert.False(t, slot.Available, "status is not filtered when matching slots")
	assert.Equal(t, "Sam Reed", slot.ClientName)
}

func TestWeekNavigation(t *testing.T) {
	anchor := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	assert.True(t, NextWeek(anchor).Equal(anchor.AddDate(0, 0, 7)))
	assert.True(t, PrevWeek(anchor).Equal(anchor.AddDate(0, 0, -7)))
}

func TestStartOfWeek(t *testing.T) {
	// 2025-07-03 is a Thursday; its week starts Monday 2025-06-30
	thursday := time.Date(2025, 7, 3, 15, 42, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	assert.True(t, StartOfWeek(thursday).Equal(monday))

	// A Monday anchors its own week
	assert.True(t, StartOfWeek(monday).Equal(monday))

	// Sunday belongs to the week that started six days earlier
	sunday := time.Date(2025, 7, 6, 9, 0, 0, 0, time.UTC)
	assert.True(t, StartOfWeek(sunday).Equal(monday))
}
