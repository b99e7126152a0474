// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"lead_crm_backend/platform/apperr"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v        *validator.Validate
	messages map[string]string
}

// New creates a new Validator instance. Field names in reported errors use
// the struct's json tag, so they match what API clients send.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{v: v, messages: make(map[string]string)}
}

// Struct validates a struct based on validation tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function together with the
// message reported when it fails.
func (val *Validator) RegisterValidation(tag, message string, fn validator.Func) error {
	if err := val.v.RegisterValidation(tag, fn); err != nil {
		return err
	}
	val.messages[tag] = message
	return nil
}

// Validate runs Struct and converts failures into an apperr validation error
// carrying one FieldError per failed rule.
func (val *Validator) Validate(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.Wrap(apperr.KindInternal, "validation setup failed", err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fe.Field(),
			Message: val.message(fe),
		})
	}
	return apperr.Validation("validation failed", fields...)
}

// RegisterMessage overrides the message reported when the named field fails
// tag. Field is the json name.
func (val *Validator) RegisterMessage(field, tag, message string) {
	val.messages[field+"."+tag] = message
}

func (val *Validator) message(fe validator.FieldError) string {
	if msg, ok := val.messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := val.messages[fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}
