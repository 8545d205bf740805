package agent

import "testing"

func TestNewState(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Limits:    Limits{MaxSteps: 10, MaxCost: 100},
		ToolNames: []string{"bash"},
		Headless:  true,
	}
	s := NewState(cfg)

	if s.Phase.Kind != PhaseThinking {
		t.Errorf("Phase.Kind = %v, want %v", s.Phase.Kind, PhaseThinking)
	}
	if s.Trace.Len() != 0 {
		t.Errorf("Trace.Len() = %d, want 0", s.Trace.Len())
	}
	if s.StepCount != 0 || s.Cost != 0 {
		t.Errorf("counters = (%d, %d), want (0, 0)", s.StepCount, s.Cost)
	}
	if !s.Config.Equal(cfg) {
		t.Error("Config differs from the one passed in")
	}
}

func TestStateWithinLimits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		stepCount uint
		cost      uint
		limits    Limits
		want      bool
	}{
		{"fresh state", 0, 0, Limits{MaxSteps: 10, MaxCost: 100}, true},
		{"steps exhausted", 10, 0, Limits{MaxSteps: 10, MaxCost: 100}, false},
		{"cost exhausted", 0, 100, Limits{MaxSteps: 10, MaxCost: 100}, false},
		{"one below both", 9, 99, Limits{MaxSteps: 10, MaxCost: 100}, true},
		{"zero step budget", 0, 0, Limits{MaxSteps: 0, MaxCost: 100}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := State{
				StepCount: tt.stepCount,
				Cost:      tt.cost,
				Config:    Config{Limits: tt.limits},
			}
			if got := s.WithinLimits(); got != tt.want {
				t.Errorf("WithinLimits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigAllowsTool(t *testing.T) {
	t.Parallel()

	cfg := Config{ToolNames: []string{"bash", "read_file"}}

	if !cfg.AllowsTool("bash") {
		t.Error("AllowsTool(bash) = false, want true")
	}
	if cfg.AllowsTool("delete") {
		t.Error("AllowsTool(delete) = true, want false")
	}
}

func TestConfigEqual(t *testing.T) {
	t.Parallel()

	base := Config{
		Limits:    Limits{MaxSteps: 5, MaxCost: 50},
		ToolNames: []string{"bash", "read_file"},
		Headless:  true,
	}

	tests := []struct {
		name  string
		other Config
		want  bool
	}{
		{"identical", Config{Limits: Limits{MaxSteps: 5, MaxCost: 50}, ToolNames: []string{"bash", "read_file"}, Headless: true}, true},
		{"different limits", Config{Limits: Limits{MaxSteps: 6, MaxCost: 50}, ToolNames: []string{"bash", "read_file"}, Headless: true}, false},
		{"different headless", Config{Limits: Limits{MaxSteps: 5, MaxCost: 50}, ToolNames: []string{"bash", "read_file"}}, false},
		{"different tools", Config{Limits: Limits{MaxSteps: 5, MaxCost: 50}, ToolNames: []string{"bash"}, Headless: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := base.Equal(tt.other); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStateTermination(t *testing.T) {
	t.Parallel()

	s := NewState(Config{Limits: Limits{MaxSteps: 1, MaxCost: 1}})
	if s.Termination() != nil {
		t.Error("live state should have nil termination")
	}

	s.Phase = Done(Submitted("out"))
	term := s.Termination()
	if term == nil || term.Type != TerminationSubmitted {
		t.Errorf("Termination() = %+v, want submitted", term)
	}
}
