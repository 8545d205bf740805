// Package run provides the persistence model for finished runs.
package run

import (
	"time"

	"github.com/felixgeelhaar/reagent/domain/agent"
)

// Record is the durable summary of one finished (or blocked) run.
type Record struct {
	ID          string            `json:"id"`
	Goal        string            `json:"goal"`
	Termination agent.Termination `json:"termination"`
	Trace       agent.Trace       `json:"trace"`
	StepCount   uint              `json:"step_count"`
	Cost        uint              `json:"cost"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
}

// NewRecord builds a record from a final state. Blocked states, which
// carry no termination, are recorded as failed.
func NewRecord(id, goal string, final agent.State, start, end time.Time) *Record {
	term := agent.Failed("blocked on human input")
	if t := final.Termination(); t != nil {
		term = *t
	}
	return &Record{
		ID:          id,
		Goal:        goal,
		Termination: term,
		Trace:       final.Trace,
		StepCount:   final.StepCount,
		Cost:        final.Cost,
		StartTime:   start,
		EndTime:     end,
	}
}

// Duration returns the wall-clock duration of the run.
func (r *Record) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
