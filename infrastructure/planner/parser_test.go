package planner

import (
	"errors"
	"strings"
	"testing"

	"github.com/felixgeelhaar/reagent/domain/agent"
)

func TestParseResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		wantThought string
		wantAction  agent.ActionType
		wantName    string
		wantArgs    string
	}{
		{
			name:        "tool call",
			content:     "Thought: list the files first\nAction: bash ls -la",
			wantThought: "list the files first",
			wantAction:  agent.ActionToolCall,
			wantName:    "bash",
			wantArgs:    "ls -la",
		},
		{
			name:        "tool call without args",
			content:     "Thought: look around\nAction: list_dir",
			wantThought: "look around",
			wantAction:  agent.ActionToolCall,
			wantName:    "list_dir",
		},
		{
			name:        "submit",
			content:     "Thought: finished\nAction: submit the answer is 42",
			wantThought: "finished",
			wantAction:  agent.ActionSubmit,
			wantArgs:    "the answer is 42",
		},
		{
			name:        "request input",
			content:     "Thought: ambiguous\nAction: request_input which environment?",
			wantThought: "ambiguous",
			wantAction:  agent.ActionRequestInput,
			wantArgs:    "which environment?",
		},
		{
			name:        "submit output containing an Action marker",
			content:     "Thought: done\nAction: submit run this:\nAction: bash rm",
			wantThought: "done",
			wantAction:  agent.ActionSubmit,
			wantArgs:    "run this:\nAction: bash rm",
		},
		{
			name:        "missing thought",
			content:     "Action: bash echo hi",
			wantThought: "",
			wantAction:  agent.ActionToolCall,
			wantName:    "bash",
			wantArgs:    "echo hi",
		},
		{
			name:        "code fenced",
			content:     "```\nThought: fenced\nAction: submit ok\n```",
			wantThought: "fenced",
			wantAction:  agent.ActionSubmit,
			wantArgs:    "ok",
		},
		{
			name:        "leading prose before the markers",
			content:     "Sure, here is my next move.\nThought: check disk\nAction: bash df -h",
			wantThought: "check disk",
			wantAction:  agent.ActionToolCall,
			wantName:    "bash",
			wantArgs:    "df -h",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			thought, action, err := ParseResponse(tt.content)
			if err != nil {
				t.Fatalf("ParseResponse() error = %v", err)
			}
			if thought != tt.wantThought {
				t.Errorf("thought = %q, want %q", thought, tt.wantThought)
			}
			if action.Type != tt.wantAction {
				t.Fatalf("action type = %v, want %v", action.Type, tt.wantAction)
			}
			switch action.Type {
			case agent.ActionToolCall:
				if action.ToolCall.Name != tt.wantName || action.ToolCall.Args != tt.wantArgs {
					t.Errorf("tool call = %+v, want (%q, %q)", action.ToolCall, tt.wantName, tt.wantArgs)
				}
			case agent.ActionSubmit:
				if action.Submit.Output != tt.wantArgs {
					t.Errorf("submit output = %q, want %q", action.Submit.Output, tt.wantArgs)
				}
			case agent.ActionRequestInput:
				if action.RequestInput.Prompt != tt.wantArgs {
					t.Errorf("prompt = %q, want %q", action.RequestInput.Prompt, tt.wantArgs)
				}
			}
		})
	}
}

func TestParseResponseMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no action marker", "Thought: thinking very hard"},
		{"empty action", "Thought: hm\nAction:"},
		{"request_input without prompt", "Thought: hm\nAction: request_input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := ParseResponse(tt.content)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("ParseResponse() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestRenderMessages(t *testing.T) {
	t.Parallel()

	trace := agent.Trace{}.
		Append(agent.Step{
			Thought:     "look",
			Action:      agent.NewToolCallAction("bash", "ls"),
			Observation: "a.go",
		}).
		Append(agent.Step{
			Action:      agent.NewRequestInputAction("which one?"),
			Observation: "a.go please",
		})

	messages := RenderMessages("SYSTEM", "count files", trace)

	if len(messages) != 6 {
		t.Fatalf("len(messages) = %d, want 6", len(messages))
	}
	if messages[0].Role != "system" || messages[0].Content != "SYSTEM" {
		t.Errorf("messages[0] = %+v", messages[0])
	}
	if messages[1].Role != "user" || messages[1].Content != "count files" {
		t.Errorf("messages[1] = %+v", messages[1])
	}
	if messages[2].Role != "assistant" || !strings.Contains(messages[2].Content, "Action: bash ls") {
		t.Errorf("messages[2] = %+v", messages[2])
	}
	if messages[3].Role != "user" || messages[3].Content != "Observation: a.go" {
		t.Errorf("messages[3] = %+v", messages[3])
	}
	if !strings.Contains(messages[4].Content, "request_input which one?") {
		t.Errorf("messages[4] = %+v", messages[4])
	}
	if messages[5].Content != "a.go please" {
		t.Errorf("messages[5] = %+v, want the bare user reply", messages[5])
	}
}

func TestRenderedActionRoundTrips(t *testing.T) {
	t.Parallel()

	// The rendering of an action must parse back to an equal action.
	actions := []agent.Action{
		agent.NewToolCallAction("bash", "echo hi"),
		agent.NewSubmitAction("final answer"),
		agent.NewRequestInputAction("continue?"),
	}

	for _, a := range actions {
		content := "Thought: t\nAction: " + a.String()
		_, parsed, err := ParseResponse(content)
		if err != nil {
			t.Fatalf("ParseResponse(%q) error = %v", content, err)
		}
		if parsed.String() != a.String() {
			t.Errorf("round trip = %q, want %q", parsed.String(), a.String())
		}
	}
}
