// Package notifications defines the one-way event contract between the
// scheduling core and the dashboard notification center
package notifications

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Event types
const (
	TypeLead        = "lead"
	TypeMessage     = "message"
	TypeRequest     = "request"
	TypeAppointment = "appointment"
	TypePayment     = "payment"
	TypeAlert       = "alert"
)

// Event priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Metadata carries optional context for an event
type Metadata struct {
	ClientID   string  `json:"clientId,omitempty"`
	ClientName string  `json:"clientName,omitempty"`
	Amount     float64 `json:"amount,omitempty"`
	Source     string  `json:"source,omitempty"`
}

// Event is a single notification emitted by the scheduling core
type Event struct {
	Type     string    `json:"type"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Priority string    `json:"priority"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Dispatcher receives events emitted by the stores and workflows. Delivery,
// display and read tracking belong to the dispatcher; the core never reads
// dispatcher state back.
type Dispatcher interface {
	Emit(ctx context.Context, event Event)
}

// LogDispatcher writes events to the structured log. Used when no dashboard
// dispatcher is attached.
type LogDispatcher struct {
	logger zerolog.Logger
}

// NewLogDispatcher creates a dispatcher backed by the given logger
func NewLogDispatcher(logger zerolog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Emit(ctx context.Context, event Event) {
	evt := d.logger.Info().
		Str("type", event.Type).
		Str("priority", event.Priority).
		Str("title", event.Title)
	if event.Metadata != nil && event.Metadata.ClientName != "" {
		evt = evt.Str("client", event.Metadata.ClientName)
	}
	evt.Msg(event.Message)
}

// Recorder captures emitted events in memory, for tests
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Emit(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of everything emitted so far
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Reset discards recorded events
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

var (
	_ Dispatcher = (*LogDispatcher)(nil)
	_ Dispatcher = (*Recorder)(nil)
)
