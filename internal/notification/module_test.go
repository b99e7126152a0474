package notification

import (
	"context"
	"errors"
	"testing"

	"lead_crm_backend/internal/events"
	"lead_crm_backend/internal/scheduler"
	"lead_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type leadsConfig struct {
	notifyEmail string
}

func (leadsConfig) GetLeadStore() string         { return "memory" }
func (leadsConfig) GetLeadsMaxPageSize() int     { return 0 }
func (c leadsConfig) GetLeadNotifyEmail() string { return c.notifyEmail }

type recordingNotifier struct {
	payloads []scheduler.LeadCreatedNotifyPayload
	err      error
}

func (n *recordingNotifier) EnqueueLeadCreatedNotify(_ context.Context, payload scheduler.LeadCreatedNotifyPayload) error {
	n.payloads = append(n.payloads, payload)
	return n.err
}

func leadCreated() events.LeadCreated {
	return events.LeadCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Name:      "Ana",
		Email:     "ana@x.com",
		Phone:     "555-1",
		Status:    "New",
		Source:    "Other",
	}
}

func TestLeadCreatedEnqueuesNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	m := New(notifier, leadsConfig{notifyEmail: " sales@example.com "}, logger.Discard())

	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)

	event := leadCreated()
	require.NoError(t, bus.PublishSync(context.Background(), event))

	require.Len(t, notifier.payloads, 1)
	got := notifier.payloads[0]
	assert.Equal(t, event.LeadID.String(), got.LeadID)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "sales@example.com", got.Recipient)
}

func TestLeadCreatedWithoutRecipientIsNoop(t *testing.T) {
	notifier := &recordingNotifier{}
	m := New(notifier, leadsConfig{}, logger.Discard())

	assert.False(t, m.Enabled())
	require.NoError(t, m.Handle(context.Background(), leadCreated()))
	assert.Empty(t, notifier.payloads)
}

func TestLeadCreatedWithoutNotifierIsNoop(t *testing.T) {
	m := New(nil, leadsConfig{notifyEmail: "sales@example.com"}, logger.Discard())

	assert.False(t, m.Enabled())
	assert.NoError(t, m.Handle(context.Background(), leadCreated()))
}

func TestEnqueueFailureIsSwallowed(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("redis down")}
	m := New(notifier, leadsConfig{notifyEmail: "sales@example.com"}, logger.Discard())

	assert.NoError(t, m.Handle(context.Background(), leadCreated()))
	assert.Len(t, notifier.payloads, 1)
}

func TestIgnoresOtherEvents(t *testing.T) {
	notifier := &recordingNotifier{}
	m := New(notifier, leadsConfig{notifyEmail: "sales@example.com"}, logger.Discard())

	assert.NoError(t, m.Handle(context.Background(), events.LeadDeleted{BaseEvent: events.NewBaseEvent(), LeadID: uuid.New()}))
	assert.Empty(t, notifier.payloads)
}
