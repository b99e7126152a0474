package email

import "context"

// LeadNotice is the content of a new-lead notification.
type LeadNotice struct {
	LeadID string
	Name   string
	Email  string
	Phone  string
	Status string
	Source string
}

// Sender delivers application emails.
type Sender interface {
	SendNewLeadEmail(ctx context.Context, toEmail string, lead LeadNotice) error
}

// NoopSender drops every email. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendNewLeadEmail(ctx context.Context, toEmail string, lead LeadNotice) error {
	return nil
}
