// File: database/repository/user/errors.go
package userRepo

import "errors"

var (
	// ErrNotFound is returned when no user matches the query.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicatePhone is returned when the phone number is already
	// registered.
	ErrDuplicatePhone = errors.New("phone number already registered")
)
