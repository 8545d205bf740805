package application

import (
	"context"

	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
	"github.com/felixgeelhaar/reagent/infrastructure/logging"
)

// Driver runs the agent loop: it resolves the oracle the current phase
// needs, feeds the outcome into the stepper, and repeats until the
// stepper reports no further transition. It holds no state of its own
// beyond the oracles; all resilience (timeouts, retries) belongs to
// the oracle implementations.
type Driver struct {
	model oracle.Model
	env   oracle.Env
	user  oracle.User
}

// NewDriver creates a driver over the given oracle set. The user
// oracle may be nil for headless runs; it is only consulted from a
// NeedsInput phase, which a headless config never reaches.
func NewDriver(model oracle.Model, env oracle.Env, user oracle.User) *Driver {
	return &Driver{model: model, env: env, user: user}
}

// Run advances the state until it is terminal or blocked and returns
// the last successfully produced state. A blocked outcome (headless
// run requesting input) returns the state alongside agent.ErrBlocked;
// normal termination, including limit exhaustion and model failure,
// returns a nil error with a Done state.
func (d *Driver) Run(ctx context.Context, s agent.State) (agent.State, error) {
	for {
		if err := ctx.Err(); err != nil {
			if s.IsTerminal() {
				return s, nil
			}
			s.Phase = agent.Done(agent.Failed("context cancelled"))
			return s, err
		}

		in, err := d.resolve(ctx, s)
		if err != nil {
			return s, err
		}

		next, ok := Step(s, in)
		if !ok {
			if s.IsTerminal() {
				return s, nil
			}
			logging.Warn().
				Add(logging.Phase(s.Phase)).
				Add(logging.StepCount(s.StepCount)).
				Msg("run blocked")
			return s, agent.ErrBlocked
		}

		logging.Debug().
			Add(logging.Phase(next.Phase)).
			Add(logging.StepCount(next.StepCount)).
			Add(logging.Cost(next.Cost)).
			Msg("transition")

		s = next
	}
}

// resolve queries the single oracle the next transition needs and
// packages its outcome as stepper input.
func (d *Driver) resolve(ctx context.Context, s agent.State) (Input, error) {
	switch NextQuery(s) {
	case QueryModel:
		reply, err := d.model.Respond(ctx, s.Trace)
		if err != nil {
			// Unrecoverable oracle failure terminates the run through
			// the stepper rather than aborting the loop.
			return Input{ReplyErr: err.Error()}, nil
		}
		return Input{Reply: &reply}, nil

	case QueryEnv:
		call := s.Phase.Action.ToolCall
		obs := d.env.Execute(ctx, call.Name, call.Args)
		return Input{Observation: &obs}, nil

	case QueryUser:
		reply, err := d.user.Prompt(ctx, s.Phase.Prompt)
		if err != nil {
			return Input{}, err
		}
		return Input{UserReply: &reply}, nil

	default:
		return Input{}, nil
	}
}
