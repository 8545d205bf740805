package agent

// Step records one completed think-act-observe iteration.
// It is immutable once created.
type Step struct {
	Thought     string `json:"thought"`
	Action      Action `json:"action"`
	Observation string `json:"observation"`
}

// Trace is the ordered history of completed steps. Insertion order is
// chronological order; transitions only ever append.
type Trace []Step

// Append returns a new trace with the step added. The receiver is left
// untouched, so every prior trace value remains a prefix of its
// successors.
func (t Trace) Append(s Step) Trace {
	out := make(Trace, len(t), len(t)+1)
	copy(out, t)
	return append(out, s)
}

// Len returns the number of completed steps.
func (t Trace) Len() int {
	return len(t)
}

// Last returns the most recent step, or nil if the trace is empty.
func (t Trace) Last() *Step {
	if len(t) == 0 {
		return nil
	}
	s := t[len(t)-1]
	return &s
}

// HasPrefix reports whether p is a prefix of t. Steps are compared by
// content, not by identity of the action payloads.
func (t Trace) HasPrefix(p Trace) bool {
	if len(p) > len(t) {
		return false
	}
	for i := range p {
		if !stepsEqual(t[i], p[i]) {
			return false
		}
	}
	return true
}

func stepsEqual(a, b Step) bool {
	return a.Thought == b.Thought &&
		a.Observation == b.Observation &&
		a.Action.Type == b.Action.Type &&
		a.Action.String() == b.Action.String()
}
