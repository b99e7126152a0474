package validator

import (
	"testing"

	"lead_crm_backend/platform/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type paint struct {
	Color string `json:"color" validate:"required,shade"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(signup{Password: "abc"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	fields := appErr.Details.([]apperr.FieldError)
	require.Len(t, fields, 2)
	assert.Equal(t, apperr.FieldError{Field: "name", Message: "is required"}, fields[0])
	assert.Equal(t, apperr.FieldError{Field: "password", Message: "must be at least 6 characters"}, fields[1])
}

func TestCustomValidationMessage(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterValidation("shade", "must be red or blue", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "red" || s == "blue"
	}))

	assert.NoError(t, v.Validate(paint{Color: "red"}))

	err := v.Validate(paint{Color: "green"})
	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	fields := appErr.Details.([]apperr.FieldError)
	require.Len(t, fields, 1)
	assert.Equal(t, "must be red or blue", fields[0].Message)
}
