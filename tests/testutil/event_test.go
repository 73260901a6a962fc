package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordingEventHandler_RecordsEvents(t *testing.T) {
	handler := NewRecordingEventHandler("CustomerCreated")
	assert.Equal(t, []string{"CustomerCreated"}, handler.EventTypes())

	event := NewStubEvent("CustomerCreated")
	require.NoError(t, handler.Handle(context.Background(), event))

	handled := handler.Handled()
	require.Len(t, handled, 1)
	assert.Equal(t, event.EventID(), handled[0].EventID())
	assert.Equal(t, "CustomerCreated", handled[0].EventType())
}

func TestRecordingEventHandler_ReturnsConfiguredError(t *testing.T) {
	handler := NewRecordingEventHandler()
	handler.SetError(assert.AnError)

	err := handler.Handle(context.Background(), NewStubEvent("OrderCreated"))
	assert.ErrorIs(t, err, assert.AnError)
	// failing handlers still record what they saw
	assert.Equal(t, 1, handler.HandledCount())
}

func TestRecordingEventHandler_Reset(t *testing.T) {
	handler := NewRecordingEventHandler()
	require.NoError(t, handler.Handle(context.Background(), NewStubEvent("CustomerUpdated")))
	require.Equal(t, 1, handler.HandledCount())

	handler.Reset()
	assert.Equal(t, 0, handler.HandledCount())
}

func TestWaitForEventCount(t *testing.T) {
	handler := NewRecordingEventHandler()

	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = handler.Handle(context.Background(), NewStubEvent("OrderStatusChanged"))
	}()

	assert.True(t, WaitForEventCount(t, handler, 1, time.Second))
	assert.False(t, WaitForEventCount(t, handler, 2, 50*time.Millisecond))
}
