// Package agent provides the core domain model for the agent engine.
package agent

// ActionType identifies the kind of action chosen by the model.
type ActionType string

const (
	ActionToolCall     ActionType = "tool_call"     // Invoke a tool
	ActionSubmit       ActionType = "submit"        // Final answer
	ActionRequestInput ActionType = "request_input" // Ask the human
)

// Action represents the model's chosen action - exactly one of the
// variant fields is set, matching Type.
type Action struct {
	Type         ActionType
	ToolCall     *ToolCallAction
	Submit       *SubmitAction
	RequestInput *RequestInputAction
}

// ToolCallAction invokes a named tool with a raw argument string.
type ToolCallAction struct {
	Name string `json:"name"`
	Args string `json:"args"`
}

// SubmitAction carries the final answer of the run.
type SubmitAction struct {
	Output string `json:"output"`
}

// RequestInputAction asks the human a question before proceeding.
type RequestInputAction struct {
	Prompt string `json:"prompt"`
}

// NewToolCallAction creates an action that invokes a tool.
func NewToolCallAction(name, args string) Action {
	return Action{
		Type:     ActionToolCall,
		ToolCall: &ToolCallAction{Name: name, Args: args},
	}
}

// NewSubmitAction creates an action that submits the final answer.
func NewSubmitAction(output string) Action {
	return Action{
		Type:   ActionSubmit,
		Submit: &SubmitAction{Output: output},
	}
}

// NewRequestInputAction creates an action that requests human input.
func NewRequestInputAction(prompt string) Action {
	return Action{
		Type:         ActionRequestInput,
		RequestInput: &RequestInputAction{Prompt: prompt},
	}
}

// IsValid returns true if the action's variant payload matches its type.
func (a Action) IsValid() bool {
	switch a.Type {
	case ActionToolCall:
		return a.ToolCall != nil
	case ActionSubmit:
		return a.Submit != nil
	case ActionRequestInput:
		return a.RequestInput != nil
	default:
		return false
	}
}

// String returns a single-line rendering of the action, the same shape
// the response parser accepts.
func (a Action) String() string {
	switch a.Type {
	case ActionToolCall:
		if a.ToolCall.Args == "" {
			return a.ToolCall.Name
		}
		return a.ToolCall.Name + " " + a.ToolCall.Args
	case ActionSubmit:
		return "submit " + a.Submit.Output
	case ActionRequestInput:
		return "request_input " + a.RequestInput.Prompt
	default:
		return string(a.Type)
	}
}
