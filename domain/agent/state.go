package agent

// State is the single unit of truth threaded through every transition.
// Each run owns its state exclusively; transitions produce a new value
// and never mutate their input.
type State struct {
	Phase     Phase  `json:"phase"`
	Trace     Trace  `json:"trace"`
	StepCount uint   `json:"step_count"`
	Cost      uint   `json:"cost"`
	Config    Config `json:"config"`
}

// NewState creates the initial state for a run: Thinking phase, empty
// trace, zero counters.
func NewState(config Config) State {
	return State{
		Phase:  Thinking(),
		Trace:  Trace{},
		Config: config,
	}
}

// IsTerminal reports whether the run has legitimately finished.
func (s State) IsTerminal() bool {
	return s.Phase.IsTerminal()
}

// Termination returns the termination reason for a terminal state, or
// nil for a live one.
func (s State) Termination() *Termination {
	if s.Phase.Kind != PhaseDone {
		return nil
	}
	return s.Phase.Termination
}

// WithinLimits reports whether another model call is permitted under
// the configured limits. Checked strictly before consulting the model,
// so accounting only ever reflects completed calls.
func (s State) WithinLimits() bool {
	return s.StepCount < s.Config.Limits.MaxSteps && s.Cost < s.Config.Limits.MaxCost
}
