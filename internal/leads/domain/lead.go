// Package domain holds the lead record, its enumerations and the rules that
// every stored lead satisfies.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status is the position of a lead in the sales pipeline.
type Status string

const (
	StatusNew        Status = "New"
	StatusContacted  Status = "Contacted"
	StatusInterested Status = "Interested"
	StatusConverted  Status = "Converted"
	StatusClosed     Status = "Closed"
)

// Statuses lists every valid status in pipeline order.
func Statuses() []Status {
	return []Status{StatusNew, StatusContacted, StatusInterested, StatusConverted, StatusClosed}
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusInterested, StatusConverted, StatusClosed:
		return true
	}
	return false
}

// Source is the channel a lead arrived through.
type Source string

const (
	SourceWebsite  Source = "Website"
	SourceFacebook Source = "Facebook"
	SourceReferral Source = "Referral"
	SourceOther    Source = "Other"
)

// Sources lists every valid source.
func Sources() []Source {
	return []Source{SourceWebsite, SourceFacebook, SourceReferral, SourceOther}
}

// IsValid reports whether s is one of the enumerated sources.
func (s Source) IsValid() bool {
	switch s {
	case SourceWebsite, SourceFacebook, SourceReferral, SourceOther:
		return true
	}
	return false
}

const (
	DefaultStatus = StatusNew
	DefaultSource = SourceOther
)

// Lead is a prospective customer record.
type Lead struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Status    Status
	Source    Source
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the caller-editable attributes of a lead.
type Fields struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,leademail"`
	Phone  string `json:"phone" validate:"required"`
	Status Status `json:"status" validate:"leadstatus"`
	Source Source `json:"source" validate:"leadsource"`
}

// Draft is a lead about to be created. A nil status or source takes the
// default; a present one, even empty, is kept and validated as given.
type Draft struct {
	Name   string
	Email  string
	Phone  string
	Status *Status
	Source *Source
}

// Fields resolves the draft into a complete set of attributes.
func (d Draft) Fields() Fields {
	f := Fields{Name: d.Name, Email: d.Email, Phone: d.Phone, Status: DefaultStatus, Source: DefaultSource}
	if d.Status != nil {
		f.Status = *d.Status
	}
	if d.Source != nil {
		f.Source = *d.Source
	}
	return f
}

// Fields returns the editable attributes of l.
func (l Lead) Fields() Fields {
	return Fields{Name: l.Name, Email: l.Email, Phone: l.Phone, Status: l.Status, Source: l.Source}
}

// Patch is a partial update. Nil members are left unchanged.
type Patch struct {
	Name   *string
	Email  *string
	Phone  *string
	Status *Status
	Source *Source
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil && p.Status == nil && p.Source == nil
}

// Apply returns the fields of current with the patch merged over them.
func (p Patch) Apply(current Fields) Fields {
	if p.Name != nil {
		current.Name = *p.Name
	}
	if p.Email != nil {
		current.Email = *p.Email
	}
	if p.Phone != nil {
		current.Phone = *p.Phone
	}
	if p.Status != nil {
		current.Status = *p.Status
	}
	if p.Source != nil {
		current.Source = *p.Source
	}
	return current
}

// ChangedFields names the attributes the patch supplies, in a fixed order.
func (p Patch) ChangedFields() []string {
	changed := make([]string, 0, 5)
	if p.Name != nil {
		changed = append(changed, "name")
	}
	if p.Email != nil {
		changed = append(changed, "email")
	}
	if p.Phone != nil {
		changed = append(changed, "phone")
	}
	if p.Status != nil {
		changed = append(changed, "status")
	}
	if p.Source != nil {
		changed = append(changed, "source")
	}
	return changed
}

// Filter narrows a lead query. Empty members do not filter.
type Filter struct {
	Search string
	Status string
}

// Window selects a slice of the ordered match set.
type Window struct {
	Offset int
	Limit  int
}
