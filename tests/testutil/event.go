// Package testutil provides common test utilities for the CRM backend.
package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/opencrm/backend/internal/domain/shared"
)

// RecordingEventHandler is a shared.EventHandler that records every
// event it receives, for asserting on published domain events.
type RecordingEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
}

// NewRecordingEventHandler creates a handler subscribed to the given
// event types. With no types it receives everything the bus delivers.
func NewRecordingEventHandler(eventTypes ...string) *RecordingEventHandler {
	return &RecordingEventHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

// EventTypes returns the event types this handler subscribes to.
func (h *RecordingEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records the event and returns the configured error, if any.
func (h *RecordingEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

// Handled returns a copy of all recorded events.
func (h *RecordingEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	result := make([]shared.DomainEvent, len(h.handled))
	copy(result, h.handled)
	return result
}

// HandledCount returns the number of recorded events.
func (h *RecordingEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// SetError sets the error to return from Handle.
func (h *RecordingEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// Reset clears all recorded events and the configured error.
func (h *RecordingEventHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = h.handled[:0]
	h.err = nil
}

// StubEvent is a minimal domain event for bus and handler tests.
type StubEvent struct {
	shared.BaseDomainEvent
	Data string
}

// NewStubEvent creates a stub event of the given type.
func NewStubEvent(eventType string) *StubEvent {
	return &StubEvent{
		BaseDomainEvent: shared.BaseDomainEvent{
			ID:        uuid.New(),
			Type:      eventType,
			Timestamp: time.Now(),
			AggID:     uuid.New(),
			AggType:   "StubAggregate",
		},
		Data: "stub-data",
	}
}

// WaitForEventCount waits until the handler has recorded at least count
// events. Returns false on timeout.
func WaitForEventCount(t *testing.T, handler *RecordingEventHandler, count int, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if handler.HandledCount() >= count {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}
