package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/retail-auth/internal/http/response"
)

func TestOK(t *testing.T) {
	resp := response.OK()
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Nil(t, resp.Data)
}

func TestStatusOKWithData(t *testing.T) {
	resp := response.StatusOKWithData(map[string]int{"count": 3})
	assert.Equal(t, response.StatusOK, resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("something broke")
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type form struct {
		Username string `validate:"required"`
		Email    string `validate:"required,email"`
	}

	err := validator.New().Struct(form{Email: "not-an-email"})
	require.Error(t, err)
	validateErr := err.(validator.ValidationErrors)

	resp := response.ValidationError(validateErr)
	assert.Equal(t, response.StatusError, resp.Status)
	assert.Contains(t, resp.Error, "field Username is a required field")
	assert.Contains(t, resp.Error, "field Email must be a valid email")
}
