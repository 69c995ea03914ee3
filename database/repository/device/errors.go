// File: database/repository/device/errors.go
package deviceRepo

import "errors"

var (
	// ErrNotFound is returned when no device matches the query.
	ErrNotFound = errors.New("device not found")
)
