// File: database/repository/session/errors.go
package sessionRepo

import "errors"

var (
	// ErrNotFound is returned when no active session matches the token.
	ErrNotFound = errors.New("session not found")
)
