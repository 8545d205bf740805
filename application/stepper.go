// Package application provides the stepper and driver loop for the
// agent engine.
package application

import (
	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
)

// Query names the single oracle the next transition requires.
type Query int

const (
	// QueryNone means the next transition consumes no oracle output:
	// the state is terminal, blocked, over its limits, or holds a
	// Submit/RequestInput action.
	QueryNone Query = iota
	// QueryModel means the driver must consult the model oracle.
	QueryModel
	// QueryEnv means the driver must execute the pending tool call.
	QueryEnv
	// QueryUser means the driver must obtain a human reply.
	QueryUser
)

// NextQuery reports which oracle a transition from s consumes. The
// limit check happens here, strictly before the model oracle is ever
// named, so an exhausted state never triggers a model call.
func NextQuery(s agent.State) Query {
	switch s.Phase.Kind {
	case agent.PhaseThinking:
		if !s.WithinLimits() {
			return QueryNone
		}
		return QueryModel
	case agent.PhaseActing:
		if s.Phase.Action.Type == agent.ActionToolCall {
			return QueryEnv
		}
		return QueryNone
	case agent.PhaseNeedsInput:
		return QueryUser
	default:
		return QueryNone
	}
}

// Input carries at most one oracle outcome into a step, matching the
// oracle NextQuery named for the state being stepped.
type Input struct {
	// Reply is the model's response, for a Thinking state within limits.
	Reply *oracle.Reply
	// ReplyErr is an unrecoverable model oracle failure, reported as a
	// message so the step can terminate the run.
	ReplyErr string
	// Observation is the environment's output for a pending tool call.
	Observation *string
	// UserReply is the human's answer for a NeedsInput state.
	UserReply *string
}

// Step advances exactly one phase transition. It is pure and total
// over all reachable states: it returns the successor state and true,
// or the input state unchanged and false when no transition exists
// (terminal state, or a headless run holding a RequestInput action).
// The input state is never mutated; trace appends produce fresh
// slices.
func Step(s agent.State, in Input) (agent.State, bool) {
	switch s.Phase.Kind {
	case agent.PhaseThinking:
		return stepThinking(s, in)
	case agent.PhaseActing:
		return stepActing(s, in)
	case agent.PhaseNeedsInput:
		return stepNeedsInput(s, in)
	default:
		// Done is absorbing.
		return s, false
	}
}

func stepThinking(s agent.State, in Input) (agent.State, bool) {
	// Limits are evaluated before any model output is consumed, so the
	// run can exceed neither bound by more than one pending call.
	if s.StepCount >= s.Config.Limits.MaxSteps {
		s.Phase = agent.Done(agent.StepLimitReached())
		return s, true
	}
	if s.Cost >= s.Config.Limits.MaxCost {
		s.Phase = agent.Done(agent.CostLimitReached())
		return s, true
	}
	if in.ReplyErr != "" {
		s.Phase = agent.Done(agent.Failed(in.ReplyErr))
		return s, true
	}
	if in.Reply == nil {
		s.Phase = agent.Done(agent.Failed("model oracle returned no reply"))
		return s, true
	}
	s.Cost += in.Reply.Cost
	s.Phase = agent.Acting(in.Reply.Thought, in.Reply.Action)
	return s, true
}

func stepActing(s agent.State, in Input) (agent.State, bool) {
	thought := s.Phase.Thought
	action := *s.Phase.Action

	switch action.Type {
	case agent.ActionToolCall:
		obs := ""
		if in.Observation != nil {
			obs = *in.Observation
		}
		s.Trace = s.Trace.Append(agent.Step{
			Thought:     thought,
			Action:      action,
			Observation: obs,
		})
		s.StepCount++
		s.Phase = agent.Thinking()
		return s, true

	case agent.ActionSubmit:
		s.Phase = agent.Done(agent.Submitted(action.Submit.Output))
		return s, true

	case agent.ActionRequestInput:
		if s.Config.Headless {
			// Blocked, not terminated: the caller must surface this as
			// a run failure rather than a normal Done.
			return s, false
		}
		s.Phase = agent.NeedsInput(action.RequestInput.Prompt)
		return s, true

	default:
		s.Phase = agent.Done(agent.Failed("invalid action in acting phase"))
		return s, true
	}
}

func stepNeedsInput(s agent.State, in Input) (agent.State, bool) {
	reply := ""
	if in.UserReply != nil {
		reply = *in.UserReply
	}
	// The originating thought is not carried across the Acting ->
	// NeedsInput transition; the recorded step uses an empty
	// placeholder.
	s.Trace = s.Trace.Append(agent.Step{
		Action:      agent.NewRequestInputAction(s.Phase.Prompt),
		Observation: reply,
	})
	s.Phase = agent.Thinking()
	return s, true
}
