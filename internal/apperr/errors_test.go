package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodeByKind(t *testing.T) {
	cases := map[*Error]int{
		Validation("bad"):               http.StatusBadRequest,
		Conflict("dup"):                 http.StatusConflict,
		Auth("nope"):                    http.StatusUnauthorized,
		Forbidden("admin only"):         http.StatusForbidden,
		NotFound("missing"):             http.StatusNotFound,
		TooManyRequests("slow down"):    http.StatusTooManyRequests,
		Infrastructure("db error", nil): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.StatusCode(), err.Kind.String())
	}
}

func TestIsMatchesKind(t *testing.T) {
	wrapped := fmt.Errorf("login: %w", Auth("invalid user credentials"))

	assert.True(t, errors.Is(wrapped, ErrAuth))
	assert.False(t, errors.Is(wrapped, ErrValidation))
}

func TestFromKeepsTypedErrorAndWrapsUnknown(t *testing.T) {
	typed := Conflict("email already registered")
	assert.Same(t, typed, From(fmt.Errorf("register: %w", typed)))

	cause := errors.New("connection reset")
	got := From(cause)
	assert.Equal(t, KindInfrastructure, got.Kind)
	assert.ErrorIs(t, got, cause)
	assert.NotContains(t, got.Message, "connection reset")
	assert.Nil(t, From(nil))
}
