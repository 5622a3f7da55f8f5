package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("friend id must not be empty"), http.StatusBadRequest},
		{New(KindCodeExpired, "expired"), http.StatusBadRequest},
		{New(KindCodeMismatch, "mismatch"), http.StatusBadRequest},
		{Invariant("direct rooms cannot accept new members"), http.StatusBadRequest},
		{Unauthorized("log in again"), http.StatusUnauthorized},
		{NotFound("user not found"), http.StatusNotFound},
		{Internal("failed", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("raw"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.status, StatusOf(c.err), c.err.Error())
	}
}

func TestMessageHidesWrappedCause(t *testing.T) {
	err := fmt.Errorf("agree: %w", Internal("failed to accept friend request", errors.New("constraint failed")))

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "failed to accept friend request", Message(err))
	assert.Equal(t, "internal server error", Message(errors.New("boom")))
}
