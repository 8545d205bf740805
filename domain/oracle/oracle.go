// Package oracle defines the capability contracts that resolve the
// engine's nondeterminism: what the model says, what the environment
// returns, what the user types. Implementations may be synchronous and
// pure (tests, simulation) or effectful (real execution) behind the
// same interface.
package oracle

import (
	"context"

	"github.com/felixgeelhaar/reagent/domain/agent"
)

// Reply is the model's structured output for one reasoning step.
type Reply struct {
	Thought string
	Action  agent.Action
	// Cost is the marginal resource cost of producing the reply,
	// typically total tokens.
	Cost uint
}

// Model produces the next reasoning step from the history so far.
// Respond must not mutate the trace. A returned error is an
// unrecoverable transport or protocol failure; recoverable failures
// (malformed output) are the implementation's responsibility to retry
// or convert before returning.
type Model interface {
	Respond(ctx context.Context, trace agent.Trace) (Reply, error)
}

// Env executes a tool invocation and returns the observation text.
// Execute is total: failures are encoded into the observation
// ("Error: ...") rather than returned, so the machine's control flow
// never branches on a tool fault.
type Env interface {
	Execute(ctx context.Context, name, args string) string
}

// User obtains one human reply for a prompt. Only ever invoked when
// the run's config is not headless.
type User interface {
	Prompt(ctx context.Context, prompt string) (string, error)
}
