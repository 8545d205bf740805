package planner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/reagent/domain/agent"
)

// The engine speaks a fixed two-line convention with the model:
//
//	Thought: <free text>
//	Action: <name> <args>
//
// with the action names "submit" and "request_input" reserved. The
// thought is everything between the Thought: marker and the Action:
// marker; the action payload is everything after the first Action:
// marker to the end of the text, so a submit output may itself contain
// "Action:" or newlines without being re-split.
const (
	thoughtMarker = "Thought:"
	actionMarker  = "Action:"

	actionSubmit       = "submit"
	actionRequestInput = "request_input"
)

// ErrMalformedResponse indicates model output that does not follow the
// response convention.
var ErrMalformedResponse = errors.New("malformed model response")

// ParseResponse extracts the thought and action from raw model output.
func ParseResponse(content string) (string, agent.Action, error) {
	content = stripCodeFence(strings.TrimSpace(content))

	actionIdx := strings.Index(content, actionMarker)
	if actionIdx < 0 {
		return "", agent.Action{}, fmt.Errorf("%w: missing %q marker", ErrMalformedResponse, actionMarker)
	}

	thought := ""
	head := content[:actionIdx]
	if tIdx := strings.Index(head, thoughtMarker); tIdx >= 0 {
		thought = strings.TrimSpace(head[tIdx+len(thoughtMarker):])
	}

	actionText := strings.TrimSpace(content[actionIdx+len(actionMarker):])
	if actionText == "" {
		return "", agent.Action{}, fmt.Errorf("%w: empty action", ErrMalformedResponse)
	}

	name, args := splitActionLine(actionText)

	switch name {
	case actionSubmit:
		return thought, agent.NewSubmitAction(args), nil
	case actionRequestInput:
		if args == "" {
			return "", agent.Action{}, fmt.Errorf("%w: request_input requires a prompt", ErrMalformedResponse)
		}
		return thought, agent.NewRequestInputAction(args), nil
	default:
		return thought, agent.NewToolCallAction(name, args), nil
	}
}

// splitActionLine separates the action name from its argument payload.
func splitActionLine(text string) (string, string) {
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		return text[:i], strings.TrimSpace(text[i+1:])
	}
	return text, ""
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models insist on adding.
func stripCodeFence(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if i := strings.Index(content, "\n"); i >= 0 {
		content = content[i+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// RenderMessages converts the trace into the message list sent to the
// provider: the system prompt, then one assistant message and one user
// message per completed step.
func RenderMessages(systemPrompt, goal string, trace agent.Trace) []Message {
	messages := make([]Message, 0, 2+2*trace.Len())
	messages = append(messages, Message{Role: "system", Content: systemPrompt})
	messages = append(messages, Message{Role: "user", Content: goal})

	for _, step := range trace {
		messages = append(messages, Message{
			Role:    "assistant",
			Content: thoughtMarker + " " + step.Thought + "\n" + actionMarker + " " + step.Action.String(),
		})
		// A human reply is a direct answer, not a tool observation.
		reply := step.Observation
		if step.Action.Type != agent.ActionRequestInput {
			reply = "Observation: " + step.Observation
		}
		messages = append(messages, Message{Role: "user", Content: reply})
	}

	return messages
}
