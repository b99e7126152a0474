package domain

import (
	"regexp"

	"lead_crm_backend/platform/validator"

	playground "github.com/go-playground/validator/v10"
)

// emailPattern is the accepted lead email shape.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// IsValidEmail reports whether email matches the lead email pattern.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

const (
	msgInvalidEmail  = "Please add a valid email"
	msgInvalidStatus = "must be one of New, Contacted, Interested, Converted, Closed"
	msgInvalidSource = "must be one of Website, Facebook, Referral, Other"
)

var requiredMessages = map[string]string{
	"name":  "Please add a name",
	"email": "Please add an email",
	"phone": "Please add a phone number",
}

// RegisterValidators installs the lead tags on v.
func RegisterValidators(v *validator.Validator) error {
	rules := []struct {
		tag     string
		message string
		fn      playground.Func
	}{
		{"leademail", msgInvalidEmail, func(fl playground.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		}},
		{"leadstatus", msgInvalidStatus, func(fl playground.FieldLevel) bool {
			return Status(fl.Field().String()).IsValid()
		}},
		{"leadsource", msgInvalidSource, func(fl playground.FieldLevel) bool {
			return Source(fl.Field().String()).IsValid()
		}},
	}
	for _, rule := range rules {
		if err := v.RegisterValidation(rule.tag, rule.message, rule.fn); err != nil {
			return err
		}
	}
	for field, message := range requiredMessages {
		v.RegisterMessage(field, "required", message)
	}
	return nil
}

// Validator checks lead fields before they are persisted.
type Validator struct {
	v *validator.Validator
}

// NewValidator registers the lead tags on v and wraps it.
func NewValidator(v *validator.Validator) (*Validator, error) {
	if err := RegisterValidators(v); err != nil {
		return nil, err
	}
	return &Validator{v: v}, nil
}

// Validate returns an apperr validation error listing every failed field, or nil.
// Defaults must already be applied; an empty status or source is rejected.
func (lv *Validator) Validate(f Fields) error {
	return lv.v.Validate(f)
}
