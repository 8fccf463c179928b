package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Unauthenticated("login required"), http.StatusUnauthorized},
		{Forbidden("nope"), http.StatusForbidden},
		{NotFound("role not found"), http.StatusNotFound},
		{Conflict("role %s already exists", "Coach"), http.StatusConflict},
		{Validation("name is required"), http.StatusBadRequest},
		{fmt.Errorf("delete studio: %w", NotFound("studio not found")), http.StatusNotFound},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Status(tc.err), tc.err.Error())
	}
}

func TestMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "An internal error occurred", Message(errors.New("pq: relation does not exist")))
	assert.Equal(t, "role Coach already exists", Message(Conflict("role %s already exists", "Coach")))
	assert.Equal(t, "role not found", Message(fmt.Errorf("wrap: %w", NotFound("role not found"))))
	assert.True(t, errors.Is(Conflict("x"), ErrConflict))
}
