package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"backend/pkg/apperr"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.InvalidState("wrong state"), http.StatusBadRequest},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("duplicate"), http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err), "%v", tc.err)
	}
}

func TestHTTPStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading order: %w", apperr.NotFound("order not found"))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))
}

func TestFromError(t *testing.T) {
	status, body := FromError(apperr.Conflict("email already exists"))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, http.StatusConflict, body.StatusCode)
	assert.Equal(t, "email already exists", body.Error)
	assert.Nil(t, body.Data)
}
