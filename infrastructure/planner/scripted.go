package planner

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
)

// ScriptStep defines an expected trace length and the reply to return.
type ScriptStep struct {
	// ExpectTraceLen asserts the trace has this length before
	// returning the reply. Negative disables the check.
	ExpectTraceLen int

	// Reply is the reply to return.
	Reply oracle.Reply

	// Err, when set, is returned instead of the reply.
	Err error

	// Condition is an optional additional condition on the trace.
	Condition func(agent.Trace) bool
}

// ScriptedModel executes a predefined sequence for deterministic
// testing. It validates the trace against each step's expectations
// before replying, so a test fails at the step where the conversation
// diverges rather than at the end.
type ScriptedModel struct {
	steps []ScriptStep
	index int
	mu    sync.Mutex
}

// NewScriptedModel creates a scripted model with the given steps.
func NewScriptedModel(steps ...ScriptStep) *ScriptedModel {
	return &ScriptedModel{
		steps: steps,
		index: 0,
	}
}

// Respond returns the next scripted reply if the trace matches
// expectations.
func (m *ScriptedModel) Respond(_ context.Context, trace agent.Trace) (oracle.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.index >= len(m.steps) {
		return oracle.Reply{}, &ScriptExhaustedError{Steps: len(m.steps)}
	}

	step := m.steps[m.index]

	if step.ExpectTraceLen >= 0 && step.ExpectTraceLen != trace.Len() {
		return oracle.Reply{}, &UnexpectedTraceError{
			StepIndex: m.index,
			Expected:  step.ExpectTraceLen,
			Actual:    trace.Len(),
		}
	}

	if step.Condition != nil && !step.Condition(trace) {
		return oracle.Reply{}, &ConditionFailedError{StepIndex: m.index}
	}

	m.index++
	if step.Err != nil {
		return oracle.Reply{}, step.Err
	}
	return step.Reply, nil
}

// Reset resets the model to the beginning of its script.
func (m *ScriptedModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = 0
}

// CurrentStep returns the current step index.
func (m *ScriptedModel) CurrentStep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index
}

// IsComplete returns true if all steps have been executed.
func (m *ScriptedModel) IsComplete() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.index >= len(m.steps)
}

// ScriptExhaustedError indicates the model was consulted after its
// script ran out.
type ScriptExhaustedError struct {
	Steps int
}

func (e *ScriptExhaustedError) Error() string {
	return fmt.Sprintf("script exhausted after %d steps", e.Steps)
}

// UnexpectedTraceError indicates the trace diverged from the script.
type UnexpectedTraceError struct {
	StepIndex int
	Expected  int
	Actual    int
}

func (e *UnexpectedTraceError) Error() string {
	return fmt.Sprintf("unexpected trace at step %d: expected length %d, got %d", e.StepIndex, e.Expected, e.Actual)
}

// ConditionFailedError indicates a step condition was not met.
type ConditionFailedError struct {
	StepIndex int
}

func (e *ConditionFailedError) Error() string {
	return fmt.Sprintf("condition failed at step %d", e.StepIndex)
}
