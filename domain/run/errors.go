package run

import "errors"

var (
	// ErrRunNotFound indicates the requested run does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunExists indicates a save collided with an existing ID.
	ErrRunExists = errors.New("run already exists")

	// ErrInvalidRunID indicates an empty or malformed run ID.
	ErrInvalidRunID = errors.New("invalid run ID")
)
