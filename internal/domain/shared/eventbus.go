package shared

import "context"

// EventHandler processes domain events of the types it declares
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventBus publishes domain events to subscribed handlers
type EventBus interface {
	Publish(ctx context.Context, events ...DomainEvent) error
	Subscribe(handler EventHandler, eventTypes ...string)
}
