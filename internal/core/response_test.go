// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Name     string `validate:"required"`
	Email    string `validate:"email"`
	Short    string `validate:"min=3"`
	Long     string `validate:"max=2"`
	Password string
	Confirm  string `validate:"eqfield=Password"`
	Role     string `validate:"oneof=admin editor"`
	Site     string `validate:"url"`
}

func invalidSignup(t *testing.T) error {
	t.Helper()

	err := validator.New().Struct(signupForm{
		Email:    "nope",
		Short:    "ab",
		Long:     "abc",
		Password: "a",
		Confirm:  "b",
		Role:     "x",
		Site:     "not a url",
	})
	require.Error(t, err)
	return err
}

func TestFieldErrors_DescribesEachTag(t *testing.T) {
	fields := FieldErrors(invalidSignup(t))

	assert.Equal(t, []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "email", Message: "email must be a valid email"},
		{Field: "short", Message: "short must be at least 3 characters"},
		{Field: "long", Message: "long must be at most 2 characters"},
		{Field: "confirm", Message: "confirm must match password"},
		{Field: "role", Message: "role must be one of: admin editor"},
		{Field: "site", Message: "site is invalid (url)"},
	}, fields)
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	err := errors.New("decode body: unexpected EOF")

	assert.Nil(t, FieldErrors(err))
	assert.Equal(t, "decode body: unexpected EOF", FormatValidationError(err))
}

func TestValidationFailed_WritesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationFailed(rec, invalidSignup(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Len(t, env.Error.Fields, 7)
	assert.Contains(t, env.Error.Message, "name is required; email must be a valid email")
}

func TestPaginated_TotalPages(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []int{1, 2}, 2, 10, 21)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, PageMeta{Page: 2, PageSize: 10, Total: 21, TotalPages: 3}, *env.Meta)
}

func TestJSONError_PlainErrorIsInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
