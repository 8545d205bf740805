package agent

// TerminationType identifies why a run ended.
type TerminationType string

const (
	TerminationSubmitted TerminationType = "submitted"  // Final answer produced
	TerminationStepLimit TerminationType = "step_limit" // MaxSteps reached
	TerminationCostLimit TerminationType = "cost_limit" // MaxCost reached
	TerminationFailed    TerminationType = "failed"     // Unrecoverable error
)

// Termination records the reason a run reached its terminal phase.
// Output is set for submitted runs, Message for failed ones.
type Termination struct {
	Type    TerminationType `json:"type"`
	Output  string          `json:"output,omitempty"`
	Message string          `json:"message,omitempty"`
}

// Submitted creates a termination carrying the final answer.
func Submitted(output string) Termination {
	return Termination{Type: TerminationSubmitted, Output: output}
}

// StepLimitReached creates a termination for step exhaustion.
func StepLimitReached() Termination {
	return Termination{Type: TerminationStepLimit}
}

// CostLimitReached creates a termination for cost exhaustion.
func CostLimitReached() Termination {
	return Termination{Type: TerminationCostLimit}
}

// Failed creates a termination for an unrecoverable error.
func Failed(message string) Termination {
	return Termination{Type: TerminationFailed, Message: message}
}

// Success reports whether the run ended with a submitted answer.
func (t Termination) Success() bool {
	return t.Type == TerminationSubmitted
}

// String returns a one-line rendering for logs and CLI output.
func (t Termination) String() string {
	switch t.Type {
	case TerminationSubmitted:
		return "submitted"
	case TerminationStepLimit:
		return "step limit reached"
	case TerminationCostLimit:
		return "cost limit reached"
	case TerminationFailed:
		return "failed: " + t.Message
	default:
		return string(t.Type)
	}
}
