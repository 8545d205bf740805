// Package toolexec implements the environment oracle: a registry of
// named tools dispatched by name, with every failure folded into the
// observation text so tool faults never break the run.
package toolexec

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/felixgeelhaar/reagent/infrastructure/logging"
)

// Handler executes one tool invocation. A returned error is rendered
// into the observation by the executor; handlers never crash a run.
type Handler func(ctx context.Context, args string) (string, error)

// ToolDef describes a registered tool.
type ToolDef struct {
	Name        string
	Description string
	Handler     Handler
}

// Executor dispatches tool calls to registered handlers. It implements
// the environment contract: Execute is total, returning an
// "Error: ..." observation for unknown tools and handler failures
// alike.
type Executor struct {
	tools     map[string]ToolDef
	maxOutput int
}

// NewExecutor creates an executor with the given tools.
func NewExecutor(tools ...ToolDef) *Executor {
	e := &Executor{
		tools:     make(map[string]ToolDef, len(tools)),
		maxOutput: defaultMaxOutput,
	}
	for _, t := range tools {
		e.tools[t.Name] = t
	}
	return e
}

const defaultMaxOutput = 64 * 1024

// SetMaxOutput bounds the observation size in bytes. Longer output is
// truncated with a marker so the model knows it is looking at a
// prefix.
func (e *Executor) SetMaxOutput(n int) {
	if n > 0 {
		e.maxOutput = n
	}
}

// Register adds or replaces a tool.
func (e *Executor) Register(t ToolDef) {
	e.tools[t.Name] = t
}

// Names returns the registered tool names, sorted.
func (e *Executor) Names() []string {
	names := make([]string, 0, len(e.tools))
	for name := range e.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe renders one line per tool for the model's system prompt.
func (e *Executor) Describe() string {
	var b strings.Builder
	for _, name := range e.Names() {
		fmt.Fprintf(&b, "  %s: %s\n", name, e.tools[name].Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Execute implements oracle.Env.
func (e *Executor) Execute(ctx context.Context, name, args string) string {
	t, ok := e.tools[name]
	if !ok {
		return fmt.Sprintf("Error: unknown tool %q. Available tools: %s", name, strings.Join(e.Names(), ", "))
	}

	out, err := t.Handler(ctx, args)
	if err != nil {
		logging.Debug().
			Add(logging.ToolName(name)).
			Add(logging.ErrorField(err)).
			Msg("tool execution failed")
		return "Error: " + err.Error()
	}

	return e.truncate(out)
}

func (e *Executor) truncate(s string) string {
	if len(s) <= e.maxOutput {
		return s
	}
	return s[:e.maxOutput] + "\n[output truncated]"
}
