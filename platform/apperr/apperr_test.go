package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindBadRequest, http.StatusBadRequest},
		{KindConflict, http.StatusConflict},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
		{KindUnknown, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, New(tc.kind, "x").HTTPStatus(), "kind %d", tc.kind)
	}
}

func TestGetKindFollowsWrappedChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("list leads: %w", Storage("leads.Query", cause))

	assert.Equal(t, KindInternal, GetKind(err))
	assert.True(t, Is(err, KindInternal))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindUnknown, GetKind(cause))
}

func TestValidationCarriesFieldDetails(t *testing.T) {
	err := Validation("validation failed", FieldError{Field: "email", Message: "must be a valid email"})

	details, ok := err.Details.([]FieldError)
	assert.True(t, ok)
	assert.Len(t, details, 1)
	assert.Equal(t, "email", details[0].Field)
	assert.Nil(t, Validation("no fields").Details)
}

func TestErrorStringIncludesOp(t *testing.T) {
	assert.Equal(t, "leads.Get: lead not found", NotFound("lead not found").WithOp("leads.Get").Error())
}

func TestConstructorsSetKind(t *testing.T) {
	assert.Equal(t, KindBadRequest, BadRequest("invalid request").Kind)
	assert.Equal(t, KindTooManyRequests, TooManyRequests("rate limit exceeded").Kind)
	assert.Equal(t, http.StatusTooManyRequests, TooManyRequests("x").HTTPStatus())
}
