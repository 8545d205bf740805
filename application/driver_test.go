package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/reagent/domain/agent"
	"github.com/felixgeelhaar/reagent/domain/oracle"
	"github.com/felixgeelhaar/reagent/infrastructure/planner"
	"github.com/felixgeelhaar/reagent/infrastructure/userio"
)

// echoEnv returns a canned observation for every tool call.
type echoEnv struct {
	observation string
	calls       int
}

func (e *echoEnv) Execute(_ context.Context, name, args string) string {
	e.calls++
	if e.observation != "" {
		return e.observation
	}
	return "ran " + name + " " + args
}

func TestDriverRunSubmits(t *testing.T) {
	t.Parallel()

	model := planner.NewMockModel(
		oracle.Reply{Thought: "look", Action: agent.NewToolCallAction("bash", "ls"), Cost: 3},
		oracle.Reply{Thought: "done", Action: agent.NewSubmitAction("two files"), Cost: 2},
	)
	env := &echoEnv{observation: "a.go b.go"}
	driver := NewDriver(model, env, userio.NewDenying())

	final, err := driver.Run(context.Background(), agent.NewState(testConfig(10, 100, true)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	term := final.Termination()
	if term == nil || term.Type != agent.TerminationSubmitted {
		t.Fatalf("termination = %+v, want submitted", term)
	}
	if term.Output != "two files" {
		t.Errorf("output = %q, want two files", term.Output)
	}
	if final.StepCount != 1 {
		t.Errorf("stepCount = %d, want 1", final.StepCount)
	}
	if final.Cost != 5 {
		t.Errorf("cost = %d, want 5", final.Cost)
	}
	if env.calls != 1 {
		t.Errorf("env calls = %d, want 1", env.calls)
	}
	if final.Trace.Len() != 1 || final.Trace.Last().Observation != "a.go b.go" {
		t.Errorf("trace = %+v, want one step with the tool observation", final.Trace)
	}
}

func TestDriverRunHitsStepLimit(t *testing.T) {
	t.Parallel()

	// A model that never submits; the step budget must stop the run.
	model := planner.NewScriptedModel(
		planner.ScriptStep{ExpectTraceLen: 0, Reply: oracle.Reply{Thought: "t", Action: agent.NewToolCallAction("bash", "true"), Cost: 1}},
		planner.ScriptStep{ExpectTraceLen: 1, Reply: oracle.Reply{Thought: "t", Action: agent.NewToolCallAction("bash", "true"), Cost: 1}},
	)
	driver := NewDriver(model, &echoEnv{}, userio.NewDenying())

	final, err := driver.Run(context.Background(), agent.NewState(testConfig(2, 100, true)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	term := final.Termination()
	if term == nil || term.Type != agent.TerminationStepLimit {
		t.Fatalf("termination = %+v, want StepLimitReached", term)
	}
	if final.StepCount != 2 {
		t.Errorf("stepCount = %d, want 2", final.StepCount)
	}
	if !model.IsComplete() {
		t.Error("model script should be fully consumed")
	}
}

func TestDriverRunHitsCostLimit(t *testing.T) {
	t.Parallel()

	model := planner.NewMockModel(
		oracle.Reply{Thought: "t", Action: agent.NewToolCallAction("bash", "true"), Cost: 60},
		oracle.Reply{Thought: "t", Action: agent.NewToolCallAction("bash", "true"), Cost: 60},
	)
	driver := NewDriver(model, &echoEnv{}, userio.NewDenying())

	final, err := driver.Run(context.Background(), agent.NewState(testConfig(10, 100, true)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	term := final.Termination()
	if term == nil || term.Type != agent.TerminationCostLimit {
		t.Fatalf("termination = %+v, want CostLimitReached", term)
	}
	// Cost may overshoot by the last completed call but never by more.
	if final.Cost != 120 {
		t.Errorf("cost = %d, want 120", final.Cost)
	}
}

func TestDriverRunBlockedHeadless(t *testing.T) {
	t.Parallel()

	model := planner.NewMockModel(
		oracle.Reply{Thought: "t", Action: agent.NewRequestInputAction("which file?"), Cost: 1},
	)
	driver := NewDriver(model, &echoEnv{}, userio.NewDenying())

	final, err := driver.Run(context.Background(), agent.NewState(testConfig(10, 100, true)))
	if !errors.Is(err, agent.ErrBlocked) {
		t.Fatalf("Run() error = %v, want ErrBlocked", err)
	}
	if final.IsTerminal() {
		t.Error("blocked run must not be terminal")
	}
	if final.Phase.Kind != agent.PhaseActing {
		t.Errorf("blocked phase = %v, want acting", final.Phase.Kind)
	}
}

func TestDriverRunInteractiveUserFlow(t *testing.T) {
	t.Parallel()

	model := planner.NewMockModel(
		oracle.Reply{Thought: "need info", Action: agent.NewRequestInputAction("prod or staging?"), Cost: 1},
		oracle.Reply{Thought: "ok", Action: agent.NewSubmitAction("deployed to staging"), Cost: 1},
	)
	user := userio.NewScripted("staging")
	driver := NewDriver(model, &echoEnv{}, user)

	final, err := driver.Run(context.Background(), agent.NewState(testConfig(10, 100, false)))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	term := final.Termination()
	if term == nil || !term.Success() {
		t.Fatalf("termination = %+v, want submitted", term)
	}
	if final.Trace.Len() != 1 {
		t.Fatalf("trace length = %d, want 1 (the input exchange)", final.Trace.Len())
	}
	step := final.Trace.Last()
	if step.Action.Type != agent.ActionRequestInput || step.Observation != "staging" {
		t.Errorf("recorded exchange = %+v", step)
	}
	if user.Remaining() != 0 {
		t.Errorf("user replies remaining = %d, want 0", user.Remaining())
	}
}

func TestDriverRunModelFailure(t *testing.T) {
	t.Parallel()

	model := planner.NewScriptedModel(
		planner.ScriptStep{ExpectTraceLen: 0, Err: errors.New("bad gateway")},
	)
	driver := NewDriver(model, &echoEnv{}, userio.NewDenying())

	final, err := driver.Run(context.Background(), agent.NewState(testConfig(10, 100, true)))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (failure terminates normally)", err)
	}

	term := final.Termination()
	if term == nil || term.Type != agent.TerminationFailed {
		t.Fatalf("termination = %+v, want Failed", term)
	}
	if !strings.Contains(term.Message, "bad gateway") {
		t.Errorf("message = %q, want it to carry the oracle error", term.Message)
	}
}

func TestDriverRunContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	model := planner.NewMockModel()
	driver := NewDriver(model, &echoEnv{}, userio.NewDenying())

	final, err := driver.Run(ctx, agent.NewState(testConfig(10, 100, true)))
	if err == nil {
		t.Fatal("Run() error = nil, want context error")
	}
	term := final.Termination()
	if term == nil || term.Type != agent.TerminationFailed {
		t.Errorf("termination = %+v, want Failed(context cancelled)", term)
	}
}
