package transport

import (
	"errors"
	"fmt"
)

var (
	ErrAuthFailed       = errors.New("authentication failed")
	ErrConnFailed       = errors.New("connection failed")
	ErrHostNotFound     = errors.New("host not found")
	ErrTimeout          = errors.New("connection timed out")
	ErrConnRefused      = errors.New("connection refused")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotConnected     = errors.New("not connected")
)

// IsConnectionError returns true if err means the host could not be reached
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrHostNotFound) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrConnRefused)
}

// WrapError adds operation and path context to an error
func WrapError(operation, path string, err error) error {
	return fmt.Errorf("%s %s: %w", operation, path, err)
}
