package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"pestguard/internal/domain"
	"pestguard/internal/domain/notifications"
	"pestguard/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// requestsKey is the fixed storage key for the request collection
const requestsKey = "appointment-requests"

// RequestStore owns inbound service requests. Same persistence pattern as
// AppointmentStore, under its own storage key.
type RequestStore struct {
	mu       sync.Mutex
	items    []domain.AppointmentRequest
	kv       repository.KeyValueStore
	dispatch notifications.Dispatcher
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRequestStore creates an empty store; call Load to restore persisted state
func NewRequestStore(kv repository.KeyValueStore, dispatch notifications.Dispatcher, logger zerolog.Logger) *RequestStore {
	return &RequestStore{
		kv:       kv,
		dispatch: dispatch,
		logger:   logger,
		now:      time.Now,
	}
}

// Load restores the collection from local storage, falling back to an empty
// collection on missing or corrupt data.
func (s *RequestStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, requestsKey)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read requests, starting empty")
		return
	}
	if raw == "" {
		return
	}
	var items []domain.AppointmentRequest
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn().Err(err).Msg("corrupt request data, starting empty")
		return
	}
	s.items = items
}

// Add assigns an id and submission time, forces status to pending and emits
// an intake notification whose priority reflects the request's urgency.
func (s *RequestStore) Add(ctx context.Context, req domain.AppointmentRequest) domain.AppointmentRequest {
	s.mu.Lock()
	req.ID = uuid.NewString()
	req.SubmittedAt = s.now()
	req.Status = domain.RequestStatusPending
	s.items = append(s.items, req)
	s.persistLocked(ctx)
	s.mu.Unlock()

	priority := notifications.PriorityMedium
	if req.Urgency == domain.UrgencyUrgent {
		priority = notifications.PriorityHigh
	}
	s.dispatch.Emit(ctx, notifications.Event{
		Type:     notifications.TypeRequest,
		Title:    "New Service Request",
		Message:  fmt.Sprintf("%s requested %s for %s", req.ClientName, req.ServiceType, req.PreferredDate.Format(dateLayout)),
		Priority: priority,
		Metadata: &notifications.Metadata{
			ClientName: req.ClientName,
		},
	})
	return req
}

// Decline marks the request declined and emits a low-priority notification.
// The reason is accepted for API compatibility but not stored. Unknown ids
// are reported via the second return and change nothing.
func (s *RequestStore) Decline(ctx context.Context, id, reason string) (domain.AppointmentRequest, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx == -1 {
		s.mu.Unlock()
		return domain.AppointmentRequest{}, false
	}
	s.items[idx].Status = domain.RequestStatusDeclined
	declined := s.items[idx]
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.dispatch.Emit(ctx, notifications.Event{
		Type:     notifications.TypeRequest,
		Title:    "Request Declined",
		Message:  fmt.Sprintf("%s's service request was declined", declined.ClientName),
		Priority: notifications.PriorityLow,
		Metadata: &notifications.Metadata{
			ClientName: declined.ClientName,
		},
	})
	return declined, true
}

// Get returns the request with the given id
func (s *RequestStore) Get(id string) (domain.AppointmentRequest, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx == -1 {
		return domain.AppointmentRequest{}, false
	}
	return s.items[idx], true
}

// All returns a copy of the current collection. Filtering by status is the
// caller's responsibility.
func (s *RequestStore) All() []domain.AppointmentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AppointmentRequest, len(s.items))
	copy(out, s.items)
	return out
}

// markConverted flags the request as converted. Called by the conversion
// workflow after the appointment has been written; emits nothing itself.
func (s *RequestStore) markConverted(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx == -1 {
		return false
	}
	s.items[idx].Status = domain.RequestStatusConverted
	s.persistLocked(ctx)
	return true
}

func (s *RequestStore) indexLocked(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *RequestStore) persistLocked(ctx context.Context) {
	data, err := json.Marshal(s.items)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode requests")
		return
	}
	if err := s.kv.Set(ctx, requestsKey, string(data)); err != nil {
		s.logger.Error().Err(err).Msg("failed to persist requests")
	}
}
