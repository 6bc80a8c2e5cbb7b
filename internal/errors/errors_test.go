package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	err := NotFoundf("game not found with id %s", "game_abc")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrValidation))
	assert.Equal(t, "game not found with id game_abc", err.Message)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "steam api unreachable")

	assert.True(t, Is(err, ErrUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAs(t *testing.T) {
	var wrapped error = fmt.Errorf("lookup: %w", RateLimited("igdb rate limit"))

	var domainErr *Error
	require.True(t, As(wrapped, &domainErr))
	assert.Equal(t, CodeRateLimited, domainErr.Code)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeAuthFailed, http.StatusBadGateway},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeUnavailable, http.StatusServiceUnavailable},
		{CodeNotConfigured, http.StatusServiceUnavailable},
		{CodeInternal, http.StatusInternalServerError},
		{Code("UNKNOWN"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), string(tt.code))
	}
}

func TestWithDetails(t *testing.T) {
	base := Validation("invalid input")
	detailed := base.WithDetails(map[string]string{"rating": "must be between 1 and 10"})

	assert.Equal(t, CodeValidation, detailed.Code)
	assert.NotNil(t, detailed.Details)
	assert.Nil(t, base.Details)
}
