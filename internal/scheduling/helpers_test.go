package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"pestguard/internal/domain/notifications"

	"github.com/rs/zerolog"
)

// memKV is an in-memory KeyValueStore for tests
type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// testClock is the fixed "now" used across store tests
var testClock = time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)

type fixture struct {
	kv           *memKV
	events       *notifications.Recorder
	appointments *AppointmentStore
	requests     *RequestStore
	converter    *Converter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	kv := newMemKV()
	rec := &notifications.Recorder{}
	logger := zerolog.Nop()

	appts := NewAppointmentStore(kv, rec, logger)
	appts.now = func() time.Time { return testClock }
	reqs := NewRequestStore(kv, rec, logger)
	reqs.now = func() time.Time { return testClock }

	return &fixture{
		kv:           kv,
		events:       rec,
		appointments: appts,
		requests:     reqs,
		converter:    NewConverter(appts, reqs, rec),
	}
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
