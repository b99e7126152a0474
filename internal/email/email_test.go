package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderNewLeadEscapesFields(t *testing.T) {
	subject, body, err := renderNewLead(LeadNotice{
		LeadID: "8c1f6a52-3d0e-4c6b-9f6e-0d7a3e1b2c4d",
		Name:   "Ana <script>",
		Email:  "ana@x.com",
		Phone:  "555-0100",
		Status: "New",
		Source: "Other",
	})
	require.NoError(t, err)

	assert.Equal(t, "New lead: Ana <script>", subject)
	assert.Contains(t, body, "Ana &lt;script&gt;")
	assert.Contains(t, body, "ana@x.com")
	assert.Contains(t, body, "8c1f6a52-3d0e-4c6b-9f6e-0d7a3e1b2c4d")
	assert.NotContains(t, body, "<script>")
}

func TestBuildMessageRejectsBadRecipient(t *testing.T) {
	s := NewSMTPSender("smtp.example.com", 587, "", "", "crm@example.com", "Lead CRM")

	_, err := s.buildMessage("not-an-address", "hi", "<p>hi</p>")
	assert.ErrorContains(t, err, "smtp to")

	msg, err := s.buildMessage("sales@example.com", "hi", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, msg.GetGenHeader("Subject"))
}

type emailSettings struct {
	host string
}

func (e emailSettings) GetSMTPHost() string         { return e.host }
func (e emailSettings) GetSMTPPort() int            { return 587 }
func (e emailSettings) GetSMTPUsername() string     { return "" }
func (e emailSettings) GetSMTPPassword() string     { return "" }
func (e emailSettings) GetEmailFromName() string    { return "Lead CRM" }
func (e emailSettings) GetEmailFromAddress() string { return "crm@example.com" }
func (e emailSettings) IsEmailEnabled() bool        { return e.host != "" }

func TestNewSenderFallsBackToNoop(t *testing.T) {
	assert.IsType(t, NoopSender{}, NewSender(emailSettings{}))
	assert.IsType(t, &SMTPSender{}, NewSender(emailSettings{host: "smtp.example.com"}))
}
