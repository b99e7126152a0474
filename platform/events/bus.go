package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"lead_crm_backend/platform/logger"
)

// InMemoryBus dispatches events to handlers registered in the same process.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for eventName.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *InMemoryBus) handlersFor(eventName string) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Handler, len(b.handlers[eventName]))
	copy(out, b.handlers[eventName])
	return out
}

// Publish runs every handler in its own goroutine. The handlers get a context
// detached from the caller's cancellation so a finished request does not
// abort them. Handler errors are logged.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	handlers := b.handlersFor(event.EventName())
	if len(handlers) == 0 {
		return
	}

	detached := context.WithoutCancel(ctx)
	for _, h := range handlers {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil && b.log != nil {
					b.log.Error("event handler panicked",
						slog.String("event", event.EventName()),
						slog.Any("panic", r),
					)
				}
			}()
			if err := h.Handle(detached, event); err != nil && b.log != nil {
				b.log.WithContext(ctx).Error("event handler failed",
					slog.String("event", event.EventName()),
					slog.String("error", err.Error()),
				)
			}
		}(h)
	}
}

// PublishSync runs the handlers in registration order and joins their errors.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	var errs []error
	for _, h := range b.handlersFor(event.EventName()) {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Wait blocks until every handler started by Publish has returned.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}
