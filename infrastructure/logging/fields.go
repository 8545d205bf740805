package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/reagent/domain/agent"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// RunID adds a run ID field.
func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

// Phase adds the machine's control phase.
func Phase(p agent.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", p.String())
	}
}

// ActionField adds the chosen action.
func ActionField(a agent.Action) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", string(a.Type))
	}
}

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// StepCount adds the completed step counter.
func StepCount(n uint) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("steps", int64(n))
	}
}

// Cost adds the accumulated cost counter.
func Cost(n uint) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("cost", int64(n))
	}
}

// Goal adds a goal field.
func Goal(goal string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", goal)
	}
}

// Termination adds the run's termination reason.
func Termination(t agent.Termination) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("termination", string(t.Type))
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds a string field with a custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
