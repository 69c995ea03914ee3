// File: database/repository/booking/errors.go
package bookingRepo

import "errors"

var (
	// ErrNotFound is returned when no booking matches the query.
	ErrNotFound = errors.New("booking not found")
)
