package agent

import "errors"

var (
	// ErrBlocked is returned when the machine has no valid transition
	// from a non-terminal state: a headless run's model requested human
	// input. Distinct from normal termination.
	ErrBlocked = errors.New("agent blocked: headless run requested human input")

	// ErrInvalidAction indicates an action whose payload does not match
	// its type tag.
	ErrInvalidAction = errors.New("invalid action")
)
