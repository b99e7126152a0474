// Package notification reacts to domain events by queueing outbound
// notifications. Domain modules never talk to email or the job queue directly.
package notification

import (
	"context"
	"strings"

	"lead_crm_backend/internal/events"
	"lead_crm_backend/internal/scheduler"
	"lead_crm_backend/platform/config"
	"lead_crm_backend/platform/logger"
)

// Module subscribes to lead events and enqueues notification jobs.
type Module struct {
	notifier  scheduler.LeadNotifier
	recipient string
	log       *logger.Logger
}

// New creates the notification module. A nil notifier or an empty
// LEAD_NOTIFY_EMAIL turns every handler into a no-op.
func New(notifier scheduler.LeadNotifier, cfg config.LeadsConfig, log *logger.Logger) *Module {
	return &Module{
		notifier:  notifier,
		recipient: strings.TrimSpace(cfg.GetLeadNotifyEmail()),
		log:       log,
	}
}

// Enabled reports whether new-lead notifications will be queued.
func (m *Module) Enabled() bool {
	return m.notifier != nil && m.recipient != ""
}

// RegisterHandlers subscribes the module to the events it handles.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), m)

	m.log.Info("notification module registered event handlers", "leadNotifications", m.Enabled())
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCreated:
		return m.handleLeadCreated(ctx, e)
	default:
		return nil
	}
}

// handleLeadCreated never fails the publisher: enqueue errors are logged only.
func (m *Module) handleLeadCreated(ctx context.Context, e events.LeadCreated) error {
	if !m.Enabled() {
		return nil
	}

	err := m.notifier.EnqueueLeadCreatedNotify(ctx, scheduler.LeadCreatedNotifyPayload{
		LeadID:    e.LeadID.String(),
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		Status:    e.Status,
		Source:    e.Source,
		Recipient: m.recipient,
	})
	if err != nil {
		m.log.WithContext(ctx).Error("failed to enqueue lead notification", "leadId", e.LeadID, "error", err)
		return nil
	}

	m.log.WithContext(ctx).Info("lead notification queued", "leadId", e.LeadID)
	return nil
}
