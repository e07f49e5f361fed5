package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnparseable marks well-formed requests whose coordinate text could
	// not be read.
	ErrUnparseable = errors.New("unparseable coordinate")
	// ErrUnavailable marks operations whose backing service is not configured.
	ErrUnavailable = errors.New("service unavailable")
)
