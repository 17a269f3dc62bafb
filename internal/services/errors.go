package services

import "errors"

var (
	// ErrPermissionDenied means the authorization predicate said no. The
	// HTTP layer maps it to a payload-less 403.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput means the request shape was fine but a business rule
	// on the values failed (empty line list, quantity out of range).
	ErrInvalidInput = errors.New("invalid input")
)
