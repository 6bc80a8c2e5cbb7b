package store

import "github.com/infernokun/inferno-games-server/internal/errors"

// Sentinel errors. These share the application error taxonomy so handlers
// can map them with errors.Is against the package-level sentinels.
var (
	ErrNotFound      = errors.NotFound("resource not found")
	ErrAlreadyExists = errors.Conflict("resource already exists")
)
