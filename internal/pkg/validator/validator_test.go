package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shareRequest struct {
	AlertID    string `json:"alert_id" validate:"required"`
	Email      string `json:"shared_with_email" validate:"required,email"`
	AccessType string `json:"access_type" validate:"required,oneof=read-only edit"`
}

func TestValidate(t *testing.T) {
	v := New()

	assert.Nil(t, v.Validate(shareRequest{AlertID: "a", Email: "x@example.com", AccessType: "edit"}))

	errs := v.Validate(shareRequest{Email: "nope", AccessType: "admin"})
	require.Len(t, errs, 3)

	byField := map[string]ValidationError{}
	for _, e := range errs {
		byField[e.Field] = e
	}
	assert.Equal(t, "required", byField["alert_id"].Tag)
	assert.Equal(t, "email", byField["shared_with_email"].Tag)
	assert.Equal(t, "access_type must be one of [read-only edit]", byField["access_type"].Message)
}

func TestValidateVar(t *testing.T) {
	v := New()
	assert.NoError(t, v.ValidateVar("x@example.com", "email"))
	assert.Error(t, v.ValidateVar("x@", "email"))
}
