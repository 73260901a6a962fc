package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencrm/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "customer", uuid.New()),
	}
}

type recordingHandler struct {
	mu     sync.Mutex
	types  []string
	events []shared.DomainEvent
	err    error
	panics bool
}

func (h *recordingHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.panics {
		panic("handler exploded")
	}
	h.mu.Lock()
	h.events = append(h.events, event)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.types
}

func (h *recordingHandler) received() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func TestInMemoryEventBus_PublishToSubscribedHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"customer.created"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("customer.created"))

	require.NoError(t, err)
	assert.Equal(t, 1, handler.received())
}

func TestInMemoryEventBus_IgnoresUnrelatedEventTypes(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"customer.created"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("order.created"))

	require.NoError(t, err)
	assert.Equal(t, 0, handler.received())
}

func TestInMemoryEventBus_WildcardHandlerReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(),
		newTestEvent("customer.created"),
		newTestEvent("product.updated"),
		newTestEvent("order.status_changed"),
	)

	require.NoError(t, err)
	assert.Equal(t, 3, handler.received())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"customer.created"}, err: errors.New("boom")}
	healthy := &recordingHandler{types: []string{"customer.created"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("customer.created"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.received())
}

func TestInMemoryEventBus_HandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"customer.created"}, panics: true}
	healthy := &recordingHandler{types: []string{"customer.created"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("customer.created"))
	})
	assert.Equal(t, 1, healthy.received())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{types: []string{"customer.created"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("customer.created"))

	require.NoError(t, err)
	assert.Equal(t, 0, handler.received())
}
