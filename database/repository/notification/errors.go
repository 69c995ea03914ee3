// File: database/repository/notification/errors.go
package notificationRepo

import "errors"

var (
	// ErrNotFound is returned when no notification matches the query.
	ErrNotFound = errors.New("notification not found")
)
