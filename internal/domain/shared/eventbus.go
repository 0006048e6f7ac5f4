package shared

import "context"

// EventHandler consumes domain events. EventTypes narrows the handler's
// subscription; an empty slice subscribes it to everything.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	EventTypes() []string
}

// EventPublisher fans domain events out to subscribed handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations. Subscribing without
// explicit event types falls back to the handler's own EventTypes.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is both sides of the in-process event pipeline.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
