package agent

import "testing"

func TestPhaseConstructors(t *testing.T) {
	t.Parallel()

	t.Run("thinking", func(t *testing.T) {
		t.Parallel()

		p := Thinking()
		if p.Kind != PhaseThinking {
			t.Errorf("Kind = %v, want %v", p.Kind, PhaseThinking)
		}
		if p.IsTerminal() {
			t.Error("IsTerminal() = true, want false")
		}
	})

	t.Run("acting", func(t *testing.T) {
		t.Parallel()

		p := Acting("check the files", NewToolCallAction("list_dir", "."))
		if p.Kind != PhaseActing {
			t.Errorf("Kind = %v, want %v", p.Kind, PhaseActing)
		}
		if p.Thought != "check the files" {
			t.Errorf("Thought = %q, want %q", p.Thought, "check the files")
		}
		if p.Action == nil || p.Action.Type != ActionToolCall {
			t.Errorf("Action = %+v, want tool call", p.Action)
		}
		if !p.IsValid() {
			t.Error("IsValid() = false, want true")
		}
	})

	t.Run("needs input", func(t *testing.T) {
		t.Parallel()

		p := NeedsInput("which branch?")
		if p.Kind != PhaseNeedsInput {
			t.Errorf("Kind = %v, want %v", p.Kind, PhaseNeedsInput)
		}
		if p.Prompt != "which branch?" {
			t.Errorf("Prompt = %q, want %q", p.Prompt, "which branch?")
		}
	})

	t.Run("done", func(t *testing.T) {
		t.Parallel()

		p := Done(Submitted("answer"))
		if p.Kind != PhaseDone {
			t.Errorf("Kind = %v, want %v", p.Kind, PhaseDone)
		}
		if !p.IsTerminal() {
			t.Error("IsTerminal() = false, want true")
		}
		if p.Termination == nil || p.Termination.Output != "answer" {
			t.Errorf("Termination = %+v, want submitted with output answer", p.Termination)
		}
	})
}

func TestPhaseIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		phase Phase
		want  bool
	}{
		{"thinking", Thinking(), true},
		{"acting with action", Acting("t", NewSubmitAction("x")), true},
		{"acting without action", Phase{Kind: PhaseActing}, false},
		{"acting with invalid action", Phase{Kind: PhaseActing, Action: &Action{Type: ActionSubmit}}, false},
		{"done without termination", Phase{Kind: PhaseDone}, false},
		{"done with termination", Done(Failed("boom")), true},
		{"unknown kind", Phase{Kind: "limbo"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.phase.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTermination(t *testing.T) {
	t.Parallel()

	t.Run("success only for submitted", func(t *testing.T) {
		t.Parallel()

		if !Submitted("out").Success() {
			t.Error("Submitted().Success() = false, want true")
		}
		for _, term := range []Termination{StepLimitReached(), CostLimitReached(), Failed("x")} {
			if term.Success() {
				t.Errorf("%v.Success() = true, want false", term.Type)
			}
		}
	})

	t.Run("string", func(t *testing.T) {
		t.Parallel()

		if got := Failed("model exploded").String(); got != "failed: model exploded" {
			t.Errorf("String() = %q", got)
		}
		if got := StepLimitReached().String(); got != "step limit reached" {
			t.Errorf("String() = %q", got)
		}
	})
}
