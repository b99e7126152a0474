// Package events carries in-process notifications between modules. A module
// publishes a fact about something it changed; other modules subscribe by
// event name without importing the publisher.
package events

import (
	"context"
	"time"
)

// Event is a named fact with the instant it happened.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events to supply OccurredAt.
type BaseEvent struct {
	At time.Time `json:"occurredAt"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.At
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{At: time.Now().UTC()}
}

// Handler reacts to one delivered event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed under their name.
type Bus interface {
	// Publish hands event to its handlers in the background and returns
	// immediately. Handler errors are logged, not returned.
	Publish(ctx context.Context, event Event)

	// PublishSync runs every handler in subscription order and returns their
	// errors joined.
	PublishSync(ctx context.Context, event Event) error

	// Subscribe adds handler for events whose EventName equals eventName.
	Subscribe(eventName string, handler Handler)
}
