package planner

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
	"github.com/felixgeelhaar/reagent/infrastructure/logging"
	"github.com/felixgeelhaar/reagent/infrastructure/resilience"
)

// DefaultSystemPrompt instructs the model in the response convention
// the parser expects.
const DefaultSystemPrompt = `You are an autonomous agent that solves tasks step by step.

On every turn, reply with exactly this format:

Thought: <your reasoning about what to do next>
Action: <action>

where <action> is one of:
  <tool> <arguments>       invoke a tool; the result comes back as an Observation
  submit <final answer>    finish the task with the given answer
  request_input <question> ask the human operator a question

Reply with exactly one Thought and one Action per turn. Do not write
anything after the Action line.`

// ModelOracle adapts a completion Provider to the engine's model
// contract: it renders the trace into chat messages, calls the
// provider through a resilient caller, and parses the reply back into
// a thought and an action. A malformed reply is retried once with a
// corrective message before being reported as a failure.
type ModelOracle struct {
	provider     Provider
	caller       *resilience.Caller[CompletionResponse]
	goal         string
	systemPrompt string
	toolPrompt   string
	temperature  float64
	maxTokens    int
}

// OracleOption configures a ModelOracle.
type OracleOption func(*ModelOracle)

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) OracleOption {
	return func(o *ModelOracle) {
		o.systemPrompt = prompt
	}
}

// WithToolDescriptions appends tool documentation to the system prompt.
func WithToolDescriptions(desc string) OracleOption {
	return func(o *ModelOracle) {
		o.toolPrompt = desc
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) OracleOption {
	return func(o *ModelOracle) {
		o.temperature = t
	}
}

// WithMaxTokens bounds the size of a single completion.
func WithMaxTokens(n int) OracleOption {
	return func(o *ModelOracle) {
		o.maxTokens = n
	}
}

// WithResilience replaces the default retry and circuit breaker
// configuration for provider calls.
func WithResilience(config resilience.Config) OracleOption {
	return func(o *ModelOracle) {
		o.caller = resilience.NewCaller[CompletionResponse](config)
	}
}

// NewModelOracle creates a model oracle for the given goal.
func NewModelOracle(provider Provider, goal string, opts ...OracleOption) *ModelOracle {
	o := &ModelOracle{
		provider:     provider,
		caller:       resilience.NewCaller[CompletionResponse](resilience.DefaultConfig()),
		goal:         goal,
		systemPrompt: DefaultSystemPrompt,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Respond implements oracle.Model.
func (o *ModelOracle) Respond(ctx context.Context, trace agent.Trace) (oracle.Reply, error) {
	messages := RenderMessages(o.prompt(), o.goal, trace)

	resp, err := o.complete(ctx, messages)
	if err != nil {
		return oracle.Reply{}, fmt.Errorf("model call failed: %w", err)
	}

	cost := uint(resp.Usage.TotalTokens)

	thought, action, parseErr := ParseResponse(resp.Message.Content)
	if parseErr == nil {
		return oracle.Reply{Thought: thought, Action: action, Cost: cost}, nil
	}

	logging.Warn().
		Add(logging.Str("provider", o.provider.Name())).
		Add(logging.ErrorField(parseErr)).
		Msg("malformed model response, retrying once")

	// One corrective round trip. The malformed reply and a reminder of
	// the convention go back to the model verbatim.
	messages = append(messages,
		Message{Role: "assistant", Content: resp.Message.Content},
		Message{Role: "user", Content: "Your reply did not follow the required format. Reply again with exactly one 'Thought:' line and one 'Action:' line."},
	)

	resp, err = o.complete(ctx, messages)
	if err != nil {
		return oracle.Reply{}, fmt.Errorf("model call failed: %w", err)
	}
	cost += uint(resp.Usage.TotalTokens)

	thought, action, parseErr = ParseResponse(resp.Message.Content)
	if parseErr != nil {
		return oracle.Reply{}, fmt.Errorf("model response unparseable after retry: %w", parseErr)
	}

	return oracle.Reply{Thought: thought, Action: action, Cost: cost}, nil
}

func (o *ModelOracle) complete(ctx context.Context, messages []Message) (CompletionResponse, error) {
	return o.caller.Call(ctx, func(ctx context.Context) (CompletionResponse, error) {
		return o.provider.Complete(ctx, CompletionRequest{
			Messages:    messages,
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
		})
	})
}

func (o *ModelOracle) prompt() string {
	if o.toolPrompt == "" {
		return o.systemPrompt
	}
	return o.systemPrompt + "\n\nAvailable tools:\n" + o.toolPrompt
}
