package igdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for IGDB API operations.
var (
	ErrNotConfigured = errors.New("igdb: missing client credentials")
	ErrAuthFailed    = errors.New("igdb: authentication failed")
	ErrRateLimited   = errors.New("igdb: rate limited by server")
	ErrNotFound      = errors.New("igdb: not found")
	ErrBadRequest    = errors.New("igdb: bad request")
	ErrServer        = errors.New("igdb: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "token", "search", "getGame", "popular", ...
	Query string // Search term or id, if applicable
	Err   error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("igdb %s [%s]: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("igdb %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, query string, err error) error {
	return &Error{
		Op:    op,
		Query: query,
		Err:   err,
	}
}
