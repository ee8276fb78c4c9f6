package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"pestguard/internal/domain"
	"pestguard/internal/domain/notifications"
	"pestguard/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// appointmentsKey is the fixed storage key for the appointment collection
const appointmentsKey = "appointments"

// upcomingLimit caps the dashboard's upcoming list
const upcomingLimit = 10

// AppointmentStore owns the appointment collection. Every mutation replaces
// the whole in-memory collection and flushes it to local storage; a failed
// flush is logged and never surfaced to the caller, so a crash between the
// in-memory change and the flush can lose the last mutation.
//
// The store does not validate input and does not reject two appointments in
// the same slot. Callers are expected to consult ComputeWeek before booking,
// but nothing guards the gap between that check and Add.
type AppointmentStore struct {
	mu       sync.Mutex
	items    []domain.Appointment
	kv       repository.KeyValueStore
	dispatch notifications.Dispatcher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAppointmentStore creates an empty store; call Load to restore persisted state
func NewAppointmentStore(kv repository.KeyValueStore, dispatch notifications.Dispatcher, logger zerolog.Logger) *AppointmentStore {
	return &AppointmentStore{
		kv:       kv,
		dispatch: dispatch,
		logger:   logger,
		now:      time.Now,
	}
}

// Load restores the collection from local storage. Missing or corrupt data
// falls back to an empty collection; startup never aborts on bad state.
func (s *AppointmentStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, appointmentsKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read appointments, starting empty")
		return
	}
	if raw == "" {
		return
	}
	var items []domain.Appointment
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt appointments data, starting empty")
		return
	}
	s.items = items
}

// AppointmentUpdate holds a partial set of appointment fields. Nil fields are
// left untouched when merged onto an existing record.
type AppointmentUpdate struct {
	ClientID      *string
	ClientName    *string
	ClientEmail   *string
	ClientPhone   *string
	ServiceType   *string
	Date          *time.Time
	Time          *string
	Duration      *int
	Status        *string
	Address       *string
	Notes         *string
	EstimatedCost *float64
	ReminderSent  *bool
}

func (u AppointmentUpdate) apply(a *domain.Appointment) {
	if u.ClientID != nil {
		a.ClientID = *u.ClientID
	}
	if u.ClientName != nil {
		a.ClientName = *u.ClientName
	}
	if u.ClientEmail != nil {
		a.ClientEmail = *u.ClientEmail
	}
	if u.ClientPhone != nil {
		a.ClientPhone = *u.ClientPhone
	}
	if u.ServiceType != nil {
		a.ServiceType = *u.ServiceType
	}
	if u.Date != nil {
		a.Date = *u.Date
	}
	if u.Time != nil {
		a.Time = *u.Time
	}
	if u.Duration != nil {
		a.Duration = *u.Duration
	}
	if u.Status != nil {
		a.Status = *u.Status
	}
	if u.Address != nil {
		a.Address = *u.Address
	}
	if u.Notes != nil {
		a.Notes = *u.Notes
	}
	if u.EstimatedCost != nil {
		a.EstimatedCost = *u.EstimatedCost
	}
	if u.ReminderSent != nil {
		a.ReminderSent = *u.ReminderSent
	}
}

// Add assigns a fresh id and timestamps, appends the appointment and emits a
// creation notification. Input fields are stored as-is; validation belongs to
// the presentation layer.
func (s *AppointmentStore) Add(ctx context.Context, appt domain.Appointment) domain.Appointment {
	s.mu.Lock()
	now := s.now()
	appt.ID = uuid.NewString()
	appt.CreatedAt = now
	appt.UpdatedAt = now
	s.items = append(s.items, appt)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dispatch.Emit(ctx, notifications.Event{
		Type:     notifications.TypeAppointment,
		Title:    "New Appointment Scheduled",
		Message:  fmt.Sprintf("%s booked %s on %s at %s", appt.ClientName, appt.ServiceType, appt.Date.Format(dateLayout), appt.Time),
		Priority: notifications.PriorityMedium,
		Metadata: &notifications.Metadata{
			ClientID:   appt.ClientID,
			ClientName: appt.ClientName,
		},
	})
	return appt
}

// Update merges the partial fields onto the appointment with the given id and
// returns the updated record. The second return reports whether the id was
// known; an unknown id leaves the collection untouched and emits nothing.
func (s *AppointmentStore) Update(ctx context.Context, id string, update AppointmentUpdate) (domain.Appointment, bool) {
	s.mu.Lock()
	idx := -1
	for i := range s.items {
		if s.items[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return domain.Appointment{}, false
	}

	prevName := s.items[idx].ClientName
	update.apply(&s.items[idx])
	s.items[idx].UpdatedAt = s.now()
	updated := s.items[idx]
	s.persistLocked(ctx)
	s.mu.Unlock()

	if update.Status != nil {
		priority := notifications.PriorityMedium
		if *update.Status == domain.AppointmentStatusCancelled {
			priority = notifications.PriorityHigh
		}
		s.dispatch.Emit(ctx, notifications.Event{
			Type:     notifications.TypeAppointment,
			Title:    "Appointment Status Updated",
			Message:  fmt.Sprintf("%s's appointment is now %s", prevName, domain.AppointmentStatusLabel(*update.Status)),
			Priority: priority,
			Metadata: &notifications.Metadata{
				ClientID:   updated.ClientID,
				ClientName: updated.ClientName,
			},
		})
	}
	return updated, true
}

// Cancel marks the appointment cancelled. The reason is accepted for API
// compatibility but not stored anywhere.
func (s *AppointmentStore) Cancel(ctx context.Context, id, reason string) (domain.Appointment, bool) {
	status := domain.AppointmentStatusCancelled
	return s.Update(ctx, id, AppointmentUpdate{Status: &status})
}

// Get returns the appointment with the given id
func (s *AppointmentStore) Get(id string) (domain.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			return s.items[i], true
		}
	}
	return domain.Appointment{}, false
}

// All returns a copy of the current collection
func (s *AppointmentStore) All() []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Appointment, len(s.items))
	copy(out, s.items)
	return out
}

// ByDate returns every appointment on the given calendar date
func (s *AppointmentStore) ByDate(date time.Time) []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Appointment
	for _, a := range s.items {
		if sameDay(a.Date, date) {
			out = append(out, a)
		}
	}
	return out
}

// Today returns today's appointments sorted ascending by slot time
func (s *AppointmentStore) Today() []domain.Appointment {
	out := s.ByDate(s.now())
	sort.Slice(out, func(i, j int) bool {
		return out[i].Time < out[j].Time
	})
	return out
}

// Upcoming returns up to 10 future appointments, excluding cancelled and
// completed ones, sorted by date then slot time
func (s *AppointmentStore) Upcoming() []domain.Appointment {
	s.mu.Lock()
	today := startOfDay(s.now())
	var out []domain.Appointment
	for _, a := range s.items {
		if a.Status == domain.AppointmentStatusCancelled || a.Status == domain.AppointmentStatusCompleted {
			continue
		}
		if startOfDay(a.Date).Before(today) {
			continue
		}
		out = append(out, a)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		di, dj := startOfDay(out[i].Date), startOfDay(out[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return out[i].Time < out[j].Time
	})
	if len(out) > upcomingLimit {
		out = out[:upcomingLimit]
	}
	return out
}

// persistLocked flushes the collection to local storage. Callers hold s.mu.
// Flush failures are logged and swallowed; the in-memory state is already the
// source of truth for this process.
func (s *AppointmentStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode appointments")
		return
	}
	if err := s.kv.Set(ctx, appointmentsKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist appointments")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
