package session

import "errors"

var (
	// ErrNotFound is returned for unknown or expired session ids
	ErrNotFound = errors.New("session: not found")

	// ErrClosed is returned for operations on a session that has ended
	ErrClosed = errors.New("session: closed")

	// ErrInvalidToken is returned when a session token fails verification
	ErrInvalidToken = errors.New("session: invalid token")
)
