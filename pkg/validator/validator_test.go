package validator

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/chrimztech/unza-counseling-console/pkg/errors"
)

type bookingRequest struct {
	StudentID int64  `json:"studentId" validate:"required,gt=0"`
	Email     string `json:"email" validate:"required,email"`
	Duration  int    `json:"duration" validate:"gte=0,lte=240"`
	Type      string `json:"type,omitempty" validate:"omitempty,oneof=FOLLOW_UP ASSESSMENT"`
	Untagged  string `validate:"max=5"`
}

func validBooking() bookingRequest {
	return bookingRequest{StudentID: 3, Email: "counselor@unza.zm", Duration: 60}
}

func TestValidate_Success(t *testing.T) {
	assert.NoError(t, Validate(validBooking()))
}

func TestValidate_ReturnsValidationError(t *testing.T) {
	s := validBooking()
	s.StudentID = 0
	err := Validate(s)
	require.Error(t, err)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Equal(t, "is required", valErr.Fields["studentId"])
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	s := validBooking()
	s.Email = "not-an-email"
	s.Untagged = "toolongstring"
	err := Validate(s)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "must be a valid email address", valErr.Fields["email"])
	assert.Contains(t, valErr.Fields["Untagged"], "at most 5")
	assert.Contains(t, err.Error(), "field 'email'")
}

func TestValidate_OutOfRange(t *testing.T) {
	s := validBooking()
	s.Duration = 500
	err := Validate(s)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields["duration"], "240")
}

func TestValidate_OneOf(t *testing.T) {
	s := validBooking()
	s.Type = "WALK_IN"
	err := Validate(s)

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields["type"], "one of")
}

func TestValidate_MultipleErrors(t *testing.T) {
	err := Validate(bookingRequest{})

	var valErr *apperrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Fields, "studentId")
	assert.Contains(t, valErr.Fields, "email")
}

type signBody struct {
	Agreed *bool `json:"agreed" validate:"required"`
}

func TestDecodeAndValidate_Success(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{"agreed":true}`))

	var s signBody
	require.NoError(t, DecodeAndValidate(req, &s))
	require.NotNil(t, s.Agreed)
	assert.True(t, *s.Agreed)
}

func TestDecodeAndValidate_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{invalid"))

	var s signBody
	err := DecodeAndValidate(req, &s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Contains(t, err.Error(), "decode request body")
}

func TestDecodeAndValidate_ValidationFails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(`{}`))

	var s signBody
	err := DecodeAndValidate(req, &s)
	var valErr *apperrors.ValidationError
	assert.ErrorAs(t, err, &valErr)
}
