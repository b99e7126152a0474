package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"lead_crm_backend/platform/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pinged struct {
	BaseEvent
}

func (pinged) EventName() string { return "test.pinged" }

func TestPublishRunsEveryHandler(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, event Event) error {
			calls.Add(1)
			return nil
		}))
	}
	bus.Subscribe("test.other", HandlerFunc(func(ctx context.Context, event Event) error {
		t.Error("unrelated handler invoked")
		return nil
	}))

	bus.Publish(context.Background(), pinged{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestPublishSurvivesCancelledContext(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var sawErr atomic.Bool
	bus.Subscribe("test.pinged", HandlerFunc(func(ctx context.Context, event Event) error {
		sawErr.Store(ctx.Err() != nil)
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, pinged{BaseEvent: NewBaseEvent()})
	bus.Wait()

	assert.False(t, sawErr.Load())
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	first := errors.New("first")
	second := errors.New("second")
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { return first }))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { return nil }))
	bus.Subscribe("test.pinged", HandlerFunc(func(context.Context, Event) error { return second }))

	err := bus.PublishSync(context.Background(), pinged{BaseEvent: NewBaseEvent()})
	require.Error(t, err)
	assert.ErrorIs(t, err, first)
	assert.ErrorIs(t, err, second)
}

func TestNewBaseEventIsUTC(t *testing.T) {
	e := NewBaseEvent()

	assert.Equal(t, time.UTC, e.OccurredAt().Location())
	assert.WithinDuration(t, time.Now(), e.OccurredAt(), time.Minute)
}
