package agent

// PhaseKind identifies the machine's control state.
type PhaseKind string

const (
	PhaseThinking   PhaseKind = "thinking"    // Awaiting a model response
	PhaseActing     PhaseKind = "acting"      // Have thought+action, awaiting execution
	PhaseNeedsInput PhaseKind = "needs_input" // Awaiting a human reply
	PhaseDone       PhaseKind = "done"        // Terminal
)

// Phase is the control state of the agent machine. Exactly the fields
// belonging to Kind are populated.
type Phase struct {
	Kind PhaseKind `json:"kind"`

	// Acting payload.
	Thought string  `json:"thought,omitempty"`
	Action  *Action `json:"action,omitempty"`

	// NeedsInput payload.
	Prompt string `json:"prompt,omitempty"`

	// Done payload.
	Termination *Termination `json:"termination,omitempty"`
}

// Thinking creates the phase awaiting a model response.
func Thinking() Phase {
	return Phase{Kind: PhaseThinking}
}

// Acting creates the phase holding a thought+action pair awaiting
// execution.
func Acting(thought string, action Action) Phase {
	return Phase{Kind: PhaseActing, Thought: thought, Action: &action}
}

// NeedsInput creates the phase awaiting a human reply. Only reachable
// when the run is not headless.
func NeedsInput(prompt string) Phase {
	return Phase{Kind: PhaseNeedsInput, Prompt: prompt}
}

// Done creates the terminal phase.
func Done(t Termination) Phase {
	return Phase{Kind: PhaseDone, Termination: &t}
}

// IsTerminal reports whether the phase is Done.
func (p Phase) IsTerminal() bool {
	return p.Kind == PhaseDone
}

// IsValid returns true if the phase carries the payload its kind
// requires.
func (p Phase) IsValid() bool {
	switch p.Kind {
	case PhaseThinking:
		return true
	case PhaseActing:
		return p.Action != nil && p.Action.IsValid()
	case PhaseNeedsInput:
		return true
	case PhaseDone:
		return p.Termination != nil
	default:
		return false
	}
}

// String returns the phase kind, with terminal detail when present.
func (p Phase) String() string {
	if p.Kind == PhaseDone && p.Termination != nil {
		return "done(" + p.Termination.String() + ")"
	}
	return string(p.Kind)
}
